package model

import (
	"time"

	"gorm.io/gorm"

	"github.com/educado/backend/internal/ordering"
)

// ItemKind 内容条目类型标签，固定枚举
type ItemKind string

const (
	KindText  ItemKind = "text"
	KindFile  ItemKind = "file"
	KindImage ItemKind = "image"
	KindVideo ItemKind = "video"
)

// Content 模块内容与具体条目的多态关联，(kind, item_id) 指向四张条目表之一
type Content struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ModuleID  uint      `json:"module_id" gorm:"index;not null"`
	Kind      ItemKind  `json:"kind" gorm:"size:20;not null"`
	ItemID    uint      `json:"item_id" gorm:"not null"`
	Position  *int      `json:"position" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var contentOrder = ordering.Field{Column: "position", ScopeBy: []string{"module_id"}}

func (c *Content) BeforeCreate(tx *gorm.DB) error {
	if c.Position != nil {
		return nil
	}
	next, err := contentOrder.Next(tx, &Content{}, c.ModuleID)
	if err != nil {
		return err
	}
	c.Position = &next
	return nil
}

// Item 四种内容条目的公共访问接口
type Item interface {
	ItemID() uint
	ItemOwnerID() uint
	ItemTitle() string
}

// ItemBase 条目公共字段，嵌入各具体类型，自身不建表
type ItemBase struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OwnerID   uint      `json:"owner_id" gorm:"index;not null"`
	Title     string    `json:"title" gorm:"size:200;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *ItemBase) ItemID() uint      { return b.ID }
func (b *ItemBase) ItemOwnerID() uint { return b.OwnerID }
func (b *ItemBase) ItemTitle() string { return b.Title }

type ItemText struct {
	ItemBase
	Body string `json:"body" gorm:"type:text"`
}

type ItemFile struct {
	ItemBase
	StoredPath   string `json:"stored_path" gorm:"size:500;not null"`
	OriginalName string `json:"original_name" gorm:"size:255"`
	Size         int64  `json:"size"`
}

type ItemImage struct {
	ItemBase
	StoredPath   string `json:"stored_path" gorm:"size:500;not null"`
	OriginalName string `json:"original_name" gorm:"size:255"`
}

type ItemVideo struct {
	ItemBase
	URL string `json:"url" gorm:"size:500;not null"`
}

func (ItemText) TableName() string  { return "item_texts" }
func (ItemFile) TableName() string  { return "item_files" }
func (ItemImage) TableName() string { return "item_images" }
func (ItemVideo) TableName() string { return "item_videos" }

// itemFactories kind -> 空条目构造，多态解析的显式查找表
var itemFactories = map[ItemKind]func() Item{
	KindText:  func() Item { return &ItemText{} },
	KindFile:  func() Item { return &ItemFile{} },
	KindImage: func() Item { return &ItemImage{} },
	KindVideo: func() Item { return &ItemVideo{} },
}

// ValidKind 校验类型标签是否在固定枚举内，必须先于任何条目查询
func ValidKind(kind ItemKind) bool {
	_, ok := itemFactories[kind]
	return ok
}

// NewItem 按类型标签构造空条目，未知标签返回 nil
func NewItem(kind ItemKind) Item {
	factory, ok := itemFactories[kind]
	if !ok {
		return nil
	}
	return factory()
}
