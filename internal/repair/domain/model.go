package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "NEW"
	TicketStatusQuoted     TicketStatus = "QUOTED"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusDone       TicketStatus = "DONE"
)

type RepairTicket struct {
	ID             snowflake.ID `json:"id" gorm:"primaryKey"`
	TenantID       snowflake.ID `json:"tenant_id" gorm:"column:tenant_id;not null;index"`
	CustomerName   string       `json:"customer_name" gorm:"type:text;not null"`
	CustomerEmail  string       `json:"customer_email" gorm:"type:text;not null"`
	Device         string       `json:"device" gorm:"type:text;not null"`
	Issue          string       `json:"issue" gorm:"type:text;not null"`
	QuoteRequested bool         `json:"quote_requested" gorm:"column:quote_requested;not null;default:false"`
	Status         TicketStatus `json:"status" gorm:"type:text;not null"`
	CreatedAt      time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (RepairTicket) TableName() string { return "repair_tickets" }
