package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// BlockType 表示富文本块的类型。
type BlockType string

const (
	BlockText    BlockType = "text"
	BlockHeading BlockType = "heading"
	BlockBullet  BlockType = "bullet"
	BlockDivider BlockType = "divider"
	BlockCode    BlockType = "code"
	BlockQuote   BlockType = "quote"
)

// ScriptBlockTypes lists the block types a script may contain.
var ScriptBlockTypes = []BlockType{BlockText, BlockHeading, BlockBullet, BlockDivider}

// NoteBlockTypes lists the block types a note may contain.
var NoteBlockTypes = []BlockType{BlockText, BlockHeading, BlockBullet, BlockDivider, BlockCode, BlockQuote}

// Block is one paragraph-level element of a script or note body.
type Block struct {
	ID       string                 `json:"id"`
	Type     BlockType              `json:"type"`
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Blocks is stored as a JSON array column.
type Blocks []Block

// DefaultBlocks is the body of a freshly created script or note.
func DefaultBlocks() Blocks {
	return Blocks{{ID: uuid.NewString(), Type: BlockText, Content: ""}}
}

// Value 实现 driver.Valuer 接口。
func (b Blocks) Value() (driver.Value, error) {
	if len(b) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal([]Block(b))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan 实现 sql.Scanner 接口。
func (b *Blocks) Scan(value interface{}) error {
	if value == nil {
		*b = Blocks{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		if len(v) == 0 {
			*b = Blocks{}
			return nil
		}
		return json.Unmarshal(v, (*[]Block)(b))
	case string:
		if v == "" {
			*b = Blocks{}
			return nil
		}
		return json.Unmarshal([]byte(v), (*[]Block)(b))
	default:
		return fmt.Errorf("unsupported type for Blocks: %T", value)
	}
}

// Validate checks every block type against allowed and fills blank ids.
func (b Blocks) Validate(allowed []BlockType) error {
	for i := range b {
		if !blockTypeAllowed(b[i].Type, allowed) {
			return fmt.Errorf("block %d: unsupported type %q", i, b[i].Type)
		}
		if strings.TrimSpace(b[i].ID) == "" {
			b[i].ID = uuid.NewString()
		}
	}
	return nil
}

func blockTypeAllowed(t BlockType, allowed []BlockType) bool {
	for _, a := range allowed {
		if a == t {
			return true
		}
	}
	return false
}
