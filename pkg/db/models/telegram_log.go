package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fruitify/fruitify-backend/pkg/enums"
)

// TelegramLog is the append-only audit row summarizing one notification
// attempt run. Exactly one row is written per run, never updated afterwards.
type TelegramLog struct {
	ID        uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   *uuid.UUID              `gorm:"column:order_id;type:uuid;index"`
	Type      string                  `gorm:"column:type;not null"`
	Payload   string                  `gorm:"column:payload;not null"`
	Attempts  int                     `gorm:"column:attempts;not null"`
	LastError *string                 `gorm:"column:last_error"`
	Status    enums.TelegramLogStatus `gorm:"column:status;not null"`
	CreatedAt time.Time               `gorm:"column:created_at;autoCreateTime;index"`
}
