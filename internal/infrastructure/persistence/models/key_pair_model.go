package models

import (
	"time"

	"github.com/MGTheTrain/rsa-vault/internal/domain/rsakeys"
)

// KeyPairModel is the GORM database model for key pairs
type KeyPairModel struct {
	ID              string    `gorm:"primaryKey;type:uuid"`
	KeySize         uint32    `gorm:"not null;index"`
	ExponentPolicy  string    `gorm:"not null;type:varchar(16)"`
	PublicKey       string    `gorm:"not null;type:text"`
	PrivateKey      string    `gorm:"not null;type:text"`
	UserID          string    `gorm:"not null;index;type:varchar(255)"`
	DateTimeCreated time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for GORM
func (KeyPairModel) TableName() string {
	return "key_pairs"
}

// ToDomain converts GORM model to domain entity
func (m *KeyPairModel) ToDomain() *rsakeys.KeyPairMeta {
	return &rsakeys.KeyPairMeta{
		ID:              m.ID,
		KeySize:         m.KeySize,
		ExponentPolicy:  m.ExponentPolicy,
		PublicKey:       m.PublicKey,
		PrivateKey:      m.PrivateKey,
		UserID:          m.UserID,
		DateTimeCreated: m.DateTimeCreated,
	}
}

// FromDomain converts domain entity to GORM model
func (m *KeyPairModel) FromDomain(k *rsakeys.KeyPairMeta) {
	m.ID = k.ID
	m.KeySize = k.KeySize
	m.ExponentPolicy = k.ExponentPolicy
	m.PublicKey = k.PublicKey
	m.PrivateKey = k.PrivateKey
	m.UserID = k.UserID
	m.DateTimeCreated = k.DateTimeCreated
}
