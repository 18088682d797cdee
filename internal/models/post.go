package models

import (
	"time"

	"gorm.io/gorm"
)

// Post 的 feed 按 (created_at, id) 倒序分页，idx_posts_feed 覆盖这两个列
type Post struct {
	ID        uint      `gorm:"primaryKey;index:idx_posts_feed,priority:2" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Points    int       `gorm:"not null;default:0" json:"points"` // 只由投票状态机修改
	CreatorID uint      `gorm:"not null;index" json:"creator_id"`
	Creator   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"creator"`
	Updoots   []Updoot  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `gorm:"index:idx_posts_feed,priority:1" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 非数据库字段，feed 查询时由子查询填充
	VoteStatus *int `gorm:"->;-:migration" json:"vote_status"`
}

// BeforeCreate pins timestamps to UTC milliseconds so a createdAt cursor
// round-trips exactly through its unix-millisecond string form.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.CreatedAt = p.CreatedAt.UTC().Truncate(time.Millisecond)
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	return nil
}
