package model

import "time"

type Product struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(50);not null;uniqueIndex" json:"name"`
	Price       int64     `gorm:"not null" json:"price"`
	Description string    `gorm:"type:varchar(200);not null" json:"description"`
	Category    string    `gorm:"type:varchar(50);not null" json:"category"`
	Stock       int64     `gorm:"not null;default:0" json:"stock"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
