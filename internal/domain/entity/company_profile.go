package entity

import "time"

// CompanyProfile is the issuing company stamped on every invoice. The
// profile to use is resolved once from configuration at startup, not
// looked up by a magic constant inside use cases.
type CompanyProfile struct {
	ID        int64
	Name      string
	Address   string
	GSTIN     string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
