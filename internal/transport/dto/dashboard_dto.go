package dto

import (
	"marketplace-api/internal/models"

	"github.com/shopspring/decimal"
)

// DashboardResponse holds the role-specific counters of the caller's dashboard.
// Employer fields are nil for freelancers and vice versa.
type DashboardResponse struct {
	Role                  models.Role      `json:"role"`
	JobsPosted            *int             `json:"jobs_posted,omitempty"`
	ApplicationsReceived  *int             `json:"applications_received,omitempty"`
	TotalSpent            *decimal.Decimal `json:"total_spent,omitempty"`
	ApplicationsSubmitted *int             `json:"applications_submitted,omitempty"`
	ApplicationsAccepted  *int             `json:"applications_accepted,omitempty"`
	TotalEarned           *decimal.Decimal `json:"total_earned,omitempty"`
}
