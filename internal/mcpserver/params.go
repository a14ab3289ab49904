package mcpserver

// BuildIndexParams mirrors the `BuildIndex` request (spec §6): workspace is
// taken from the Server's fixed workspace root, so only build knobs surface
// here.
type BuildIndexParams struct {
	IncludeSources          bool `json:"include_sources,omitempty"`
	IncludeRanges           bool `json:"include_ranges,omitempty"`
	IncludeReverseAdjacency bool `json:"include_reverse_adjacency,omitempty"`
}

// ResolveEntryParams mirrors the `ResolveEntry` request.
type ResolveEntryParams struct {
	Entry string `json:"entry"`
}

// PackParams mirrors the `Pack` request: a seed list plus the shared pack
// options (spec §6 `Pack`).
type PackParams struct {
	Seed            []string `json:"seed"`
	Depth           int      `json:"depth,omitempty"`
	Budget          int      `json:"budget"`
	Zoom            string   `json:"zoom,omitempty"`
	Compress        string   `json:"compress,omitempty"`
	StripComments   bool     `json:"strip_comments,omitempty"`
	CompressImports bool     `json:"compress_imports,omitempty"`
	SessionID       string   `json:"session_id,omitempty"`
	Format          string   `json:"format,omitempty"`
}

// HunkParam is the wire shape of a types.Hunk.
type HunkParam struct {
	File     string `json:"file"`
	OldStart int    `json:"old_start"`
	OldCount int    `json:"old_count"`
	NewStart int    `json:"new_start"`
	NewCount int    `json:"new_count"`
}

// DiffPackParams mirrors the `DiffPack` request: an explicit hunk list, or
// when omitted, the Server falls back to its configured diff source (the
// workspace's uncommitted git changes).
type DiffPackParams struct {
	Hunks           []HunkParam `json:"hunks,omitempty"`
	Depth           int         `json:"depth,omitempty"`
	Budget          int         `json:"budget"`
	Zoom            string      `json:"zoom,omitempty"`
	Compress        string      `json:"compress,omitempty"`
	StripComments   bool        `json:"strip_comments,omitempty"`
	CompressImports bool        `json:"compress_imports,omitempty"`
	SessionID       string      `json:"session_id,omitempty"`
	Format          string      `json:"format,omitempty"`
}
