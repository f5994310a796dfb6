package rom

import "github.com/lookbusy1344/gbasm/asm"

// BlockKind distinguishes the three shapes a placed region of ROM can
// take.
type BlockKind int

const (
	// BlockInstructions holds a contiguous run of assembled instructions
	// and DB/DW directives from a single add_asm_file/add_asm_source call,
	// encoded lazily at Compile time once every label is known.
	BlockInstructions BlockKind = iota
	// BlockBytes holds raw bytes placed by add_bytes or add_header.
	BlockBytes
	// BlockEmptyGap marks a span the cursor skipped over (advance_address,
	// or the unused space between interrupt vectors); it reads as zero
	// fill at emission time.
	BlockEmptyGap
)

// Block is one placed region of the final ROM image, in the order it was
// added to the builder.
type Block struct {
	Kind  BlockKind
	Start Address
	End   Address // exclusive

	Instructions []*asm.Instruction // BlockInstructions
	Data         []byte             // BlockBytes

	SourceFile string // originating file, for diagnostics; "" if synthetic
}

// StartLinear is Start's position in the flattened ROM image.
func (b *Block) StartLinear() int { return b.Start.Linear() }

// EndLinear is End's position in the flattened ROM image.
func (b *Block) EndLinear() int { return b.End.Linear() }
