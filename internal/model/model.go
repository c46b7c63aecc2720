// Package model holds the data types shared by the extractor, the API
// normalizer, and the DSL compiler: the raw catalog shapes coming out of
// the GUI dump, the normalized API surface, and the compiled plan.
package model

// Mode is the semantic type of an input slot, inferred by the mode
// classifier from a marker pane's meta/name. ModeAny is late-bound to a
// concrete mode at emit time based on the item actually placed in the slot.
type Mode string

const (
	ModeAny      Mode = "ANY"
	ModeText     Mode = "TEXT"
	ModeNumber   Mode = "NUMBER"
	ModeVariable Mode = "VARIABLE"
	ModeItem     Mode = "ITEM"
	ModeBlock    Mode = "BLOCK"
	ModeLocation Mode = "LOCATION"
	ModeArray    Mode = "ARRAY"
	ModeVector   Mode = "VECTOR"
)

// SlotItem is one inventory slot in a dumped chest.
type SlotItem struct {
	ID   string
	Meta int
	Name string
	Lore string
}

// RawRecord is one "# record" chunk as read from the dump, before any
// geometry/mode/lane analysis. Keys not present in the dump are left at
// their zero value.
type RawRecord struct {
	Path     string
	Category string
	Subitem  string
	GUI      string
	Signs    [4]string
	HasChest bool
	Items    map[int]SlotItem
}

// Variant is the parsed bullet-list lore of a non-glass enum slot item:
// an ordered option list plus the currently selected index.
type Variant struct {
	Options       []string
	SelectedIndex int
}

// ArgBinding links one marker pane to the inventory slot it controls.
type ArgBinding struct {
	GlassSlot    int
	GlassMeta    int
	GlassName    string
	KeyNorm      string
	Mode         Mode
	ArgSlot      int
	ArgHasItem   bool
	Variant      *Variant
}

// EnumItem is a raw enumerated-choice slot discovered on a non-glass item.
type EnumItem struct {
	Slot int
	ID   string
	Meta int
	Name string
	Variant Variant
}

// ActionRecord is one row of the raw catalog: an action plus its bound
// argument slots and enum slots, keyed by a stable record id.
//
// Records are owned exclusively by the extractor until handoff to the API
// normalizer, at which point they are treated as frozen.
type ActionRecord struct {
	ID          string
	Path        string
	Category    string
	Subitem     string
	GUI         string
	Signs       [4]string
	HasChest    bool
	Args        []ArgBinding
	Enums       []EnumItem
	Fingerprint string // blake2b-256 hex digest, diagnostics only
}

// Param is one canonicalized function parameter.
type Param struct {
	Name string `json:"name"`
	Mode Mode   `json:"mode"`
	Slot int    `json:"slot"`
	Label string `json:"label,omitempty"`
}

// EnumDef is a named, slot-addressed set of labeled options.
type EnumDef struct {
	Name    string         `json:"name"`
	Slot    int            `json:"slot"`
	Options map[string]int `json:"options"`
	// OptionOrder preserves discovery order so API JSON output is stable
	// even though Options is a map.
	OptionOrder []string `json:"-"`
}

// ParamSource records whether a function's params list is exactly the raw
// extractor output, or was altered by the param normalizer.
type ParamSource string

const (
	ParamSourceRaw        ParamSource = "raw"
	ParamSourceNormalized ParamSource = "normalized"
)

// ApiFuncMeta is the small metadata bag attached to every ApiFunc.
type ApiFuncMeta struct {
	ParamSource ParamSource `json:"paramSource"`
}

// ApiFunc is the normalized representation of one action: a canonical
// function keyed by (module, canonical name) carrying its deterministic
// alias set, canonical params, and enum option maps.
type ApiFunc struct {
	ID              string      `json:"id"`
	Sign1           string      `json:"sign1"`
	Sign2           string      `json:"sign2"`
	GUI             string      `json:"gui"`
	Menu            string      `json:"menu"`
	Aliases         []string    `json:"aliases"`
	Description     string      `json:"description"`
	DescriptionRaw  string      `json:"descriptionRaw"`
	Params          []Param     `json:"params"`
	Enums           []EnumDef   `json:"enums"`
	Meta            ApiFuncMeta `json:"meta"`
}

// ApiMap is the full normalized API surface: module name -> canonical
// function name -> ApiFunc. The "select" module is further partitioned
// into domain scopes (ifplayer_*, ifmob_*, ifentity_*) by name prefix.
type ApiMap map[string]map[string]*ApiFunc

// PlanEntry is a single compiled output row.
type PlanEntry struct {
	Block   string `json:"block"`
	Module  string `json:"module"`
	Name    string `json:"name"`
	Args    string `json:"args"`
	Negated bool   `json:"negated,omitempty"`
}

// PlanKind is the top-level construct a PlanGroup was compiled from.
type PlanKind string

const (
	PlanKindEvent PlanKind = "event"
	PlanKindFunc  PlanKind = "func"
	PlanKindLoop  PlanKind = "loop"
)

// PlanGroup is one top-level event/func/loop's compiled body.
type PlanGroup struct {
	Kind    PlanKind    `json:"kind"`
	Ticks   int         `json:"ticks,omitempty"` // only meaningful when Kind == PlanKindLoop
	Entries []PlanEntry `json:"entries"`
}

// Plan is the compiled output of one DSL source file: every top-level
// event/func/loop, keyed by name, holding its own flat PlanEntry list.
type Plan map[string]PlanGroup

const NoArgs = "no"

// Block tags recognized by the host runtime.
const (
	BlockDiamond     = "diamond_block"
	BlockLapis       = "lapis_block"
	BlockEmerald     = "emerald_block"
	BlockIron        = "iron_block"
	BlockNetherBrick = "nether_brick"
	BlockNewline     = "newline"
	BlockSkip        = "skip"
)
