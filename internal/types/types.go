// Package types defines the data model shared by every component: symbols,
// the project index, candidates, context slices and packs, and session state.
package types

import "fmt"

// Language is the closed set of languages the extractor dispatch table knows.
type Language int

const (
	LangUnknown Language = iota
	LangPython
	LangTypeScript
	LangJavaScript
	LangRust
	LangGo
	LangJava
	LangC
	LangCpp
	LangRuby
)

var languageNames = map[Language]string{
	LangUnknown:    "unknown",
	LangPython:     "python",
	LangTypeScript: "typescript",
	LangJavaScript: "javascript",
	LangRust:       "rust",
	LangGo:         "go",
	LangJava:       "java",
	LangC:          "c",
	LangCpp:        "cpp",
	LangRuby:       "ruby",
}

func (l Language) String() string {
	if s, ok := languageNames[l]; ok {
		return s
	}
	return "unknown"
}

// LanguageFromExt maps a file extension (including the dot) to a Language.
func LanguageFromExt(ext string) Language {
	switch ext {
	case ".py":
		return LangPython
	case ".ts", ".tsx":
		return LangTypeScript
	case ".js", ".jsx", ".mjs", ".cjs":
		return LangJavaScript
	case ".rs":
		return LangRust
	case ".go":
		return LangGo
	case ".java":
		return LangJava
	case ".c", ".h":
		return LangC
	case ".cpp", ".cc", ".cxx", ".hpp", ".hh":
		return LangCpp
	case ".rb":
		return LangRuby
	default:
		return LangUnknown
	}
}

// Kind is the symbol kind.
type Kind int

const (
	KindFunction Kind = iota
	KindMethod
	KindClass
	KindModule
)

func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindMethod:
		return "method"
	case KindClass:
		return "class"
	case KindModule:
		return "module"
	default:
		return "unknown"
	}
}

// SymbolID is a stable string identifier: "relative/path:qualified_name".
type SymbolID string

// NewSymbolID builds the canonical id form.
func NewSymbolID(path, qualifiedName string) SymbolID {
	return SymbolID(fmt.Sprintf("%s:%s", path, qualifiedName))
}

// Symbol is an immutable extracted entity.
type Symbol struct {
	ID            SymbolID
	Name          string
	QualifiedName string
	File          string
	LineStart     uint32
	LineEnd       uint32
	Language      Language
	Kind          Kind
	Signature     string
	DocLine       string // empty means absent
}

// Hunk is a single file-scoped line-range change from an external diff source.
type Hunk struct {
	File     string
	OldStart uint32
	OldCount uint32
	NewStart uint32
	NewCount uint32
}

// NewEnd returns the last line (inclusive) touched in the new file.
func (h Hunk) NewEnd() uint32 {
	if h.NewCount == 0 {
		return h.NewStart
	}
	return h.NewStart + h.NewCount - 1
}

// Relevance tags a Candidate with why it was selected; its integer value
// governs the packer's tie-break ordering (lower sorts first), matching
// priority(relevance) in §4.4: ContainsDiff(0) < EntryPoint(1) < Match(2) <
// CallerOfDiff(3) < CalleeOfDiff(4) < DepthK(5+k).
type Relevance struct {
	Tag   RelevanceTag
	Depth uint8   // meaningful only when Tag == RelevanceDepthK
	Score float32 // meaningful only when Tag == RelevanceMatch
}

type RelevanceTag int

const (
	RelevanceContainsDiff RelevanceTag = iota
	RelevanceEntryPoint
	RelevanceMatch
	RelevanceCallerOfDiff
	RelevanceCalleeOfDiff
	RelevanceDepthK
)

// Priority returns the ordering key used to sort candidates and to decide
// which of two tags for the same symbol wins ("highest" = lowest number).
func (r Relevance) Priority() int {
	if r.Tag == RelevanceDepthK {
		return 5 + int(r.Depth)
	}
	return int(r.Tag)
}

// Short returns the compact tag string used by the ultracompact serializer,
// e.g. "diff", "entry", "match", "caller", "callee", "d2".
func (r Relevance) Short() string {
	switch r.Tag {
	case RelevanceContainsDiff:
		return "diff"
	case RelevanceEntryPoint:
		return "entry"
	case RelevanceMatch:
		return "match"
	case RelevanceCallerOfDiff:
		return "caller"
	case RelevanceCalleeOfDiff:
		return "callee"
	case RelevanceDepthK:
		return fmt.Sprintf("d%d", r.Depth)
	default:
		return "unknown"
	}
}

// LineRange is an inclusive [Start, End] interval.
type LineRange struct {
	Start uint32
	End   uint32
}

// Candidate is a symbol selected for possible inclusion in a pack.
type Candidate struct {
	SymbolID  SymbolID
	Relevance Relevance
	DiffLines []LineRange
}

// Zoom selects the code-content shape for a slice.
type Zoom int

const (
	ZoomMap Zoom = iota
	ZoomIndex
	ZoomSketch
	ZoomWindowed
	ZoomFull
)

// CompressMode selects the body-compression strategy.
type CompressMode int

const (
	CompressNone CompressMode = iota
	CompressBlocks
	CompressTwoStage
	CompressChunkSummary
)

// ContextSlice is one rendered candidate in an output pack.
type ContextSlice struct {
	ID        SymbolID
	Signature string
	Lines     LineRange
	Relevance Relevance
	Code      *string // nil means signature-only
	Etag      string
	Meta      SliceMeta
}

// SliceMeta holds non-default-only fields per the meta sparsity invariant
// (§4.5): a field here is serialized only when it differs from its zero value.
type SliceMeta struct {
	BlockCount    int
	DroppedBlocks int
	DiffLines     []LineRange
	Summary       string
}

// IsEmpty reports whether every field of meta is at its zero value, in which
// case serializers must omit the meta object entirely.
func (m SliceMeta) IsEmpty() bool {
	return m.BlockCount == 0 && m.DroppedBlocks == 0 && len(m.DiffLines) == 0 && m.Summary == ""
}

// CacheStats summarizes delta-mode hit/miss counts for one pack.
type CacheStats struct {
	Hits    int
	Misses  int
	HitRate float64
}

// ContextPack is the output aggregate.
type ContextPack struct {
	Slices             []ContextSlice
	Budget             int
	BudgetUsed         int
	Unchanged          []SymbolID // nil means non-delta mode; non-nil (possibly empty) means delta mode
	CacheStats         CacheStats
	ProjectFingerprint string
	BudgetExhausted    bool
}
