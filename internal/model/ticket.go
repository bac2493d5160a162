package model

import (
	"fmt"
	"math/rand"
	"time"

	"gorm.io/datatypes"
)

type TicketStatus string

const (
	TicketStatusOpen            TicketStatus = "open"
	TicketStatusInProgress      TicketStatus = "in_progress"
	TicketStatusResolved        TicketStatus = "resolved"
	TicketStatusClosed          TicketStatus = "closed"
	TicketStatusPendingCustomer TicketStatus = "pending_customer"
	TicketStatusPendingVendor   TicketStatus = "pending_vendor"
)

type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "low"
	TicketPriorityMedium   TicketPriority = "medium"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityCritical TicketPriority = "critical"
)

type TicketSource string

const (
	TicketSourceChatbot TicketSource = "chatbot"
	TicketSourceEmail   TicketSource = "email"
	TicketSourceGLPI    TicketSource = "glpi"
	TicketSourceSolman  TicketSource = "solman"
	TicketSourceManual  TicketSource = "manual"
	TicketSourcePhone   TicketSource = "phone"
)

type TicketCategory string

const (
	TicketCategoryPasswordReset TicketCategory = "password_reset"
	TicketCategoryVPNAccess     TicketCategory = "vpn_access"
	TicketCategoryHardware      TicketCategory = "hardware"
	TicketCategorySoftware      TicketCategory = "software"
	TicketCategoryNetwork       TicketCategory = "network"
	TicketCategoryEmailIssues   TicketCategory = "email_issues"
	TicketCategoryAccessRights  TicketCategory = "access_rights"
	TicketCategoryOther         TicketCategory = "other"
)

// Ticket is the single domain record of the helpdesk: one row in the remote
// tickets table. Status carries no transition rules; any value may follow any
// other.
type Ticket struct {
	ID           string         `gorm:"type:uuid;primaryKey" json:"id"`
	TicketNumber string         `gorm:"type:varchar(32);index" json:"ticket_number"`
	Title        string         `gorm:"type:varchar(200);not null" json:"title"`
	Description  string         `gorm:"type:text;not null" json:"description"`
	Category     TicketCategory `gorm:"type:varchar(32);index;not null" json:"category"`
	Priority     TicketPriority `gorm:"type:varchar(16);index;default:medium" json:"priority"`
	Status       TicketStatus   `gorm:"type:varchar(32);index;default:open" json:"status"`
	Source       TicketSource   `gorm:"type:varchar(16);not null" json:"source"`

	RequesterEmail string `gorm:"type:varchar(255);not null" json:"requester_email"`
	RequesterName  string `gorm:"type:varchar(255);not null" json:"requester_name"`
	Department     string `gorm:"type:varchar(128)" json:"department,omitempty"`
	ContactNumber  string `gorm:"type:varchar(32)" json:"contact_number,omitempty"`
	AssignedTeam   string `gorm:"type:varchar(128);index" json:"assigned_team,omitempty"`
	AssignedTo     string `gorm:"type:varchar(255);index" json:"assigned_to,omitempty"`

	RelatedAssets datatypes.JSONSlice[string] `json:"related_assets"`
	Tags          datatypes.JSONSlice[string] `json:"tags"`

	ResolutionNotes string `gorm:"type:text" json:"resolution_notes,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	SLADueDate *time.Time `gorm:"column:sla_due_date" json:"sla_due_date,omitempty"`

	AIClassificationConfidence     *float64                                 `gorm:"column:ai_classification_confidence" json:"ai_classification_confidence,omitempty"`
	SuggestedKnowledgeBaseArticles datatypes.JSONSlice[string]              `json:"suggested_knowledge_base_articles"`
	IsSelfServiceResolved          bool                                     `gorm:"default:false" json:"is_self_service_resolved"`
	ChatHistory                    datatypes.JSONSlice[map[string]any]      `json:"chat_history"`
}

// TicketSummary is the dashboard aggregate: five independent counts.
type TicketSummary struct {
	TotalTickets        int64 `json:"total_tickets"`
	OpenTickets         int64 `json:"open_tickets"`
	InProgressTickets   int64 `json:"in_progress_tickets"`
	HighPriorityTickets int64 `json:"high_priority_tickets"`
	CriticalTickets     int64 `json:"critical_tickets"`
}

// GenerateTicketNumber builds a human-readable ticket number of the form
// TKT-<YYMMDD>-<4 random digits>. Not guaranteed unique; collisions are
// accepted and undetected.
func GenerateTicketNumber(now time.Time) string {
	return fmt.Sprintf("TKT-%s-%04d", now.Format("060102"), 1000+rand.Intn(9000))
}
