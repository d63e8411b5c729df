// Package session provides the shopper session identity consulted on every tracking call.
package session

import "strings"

// Identity supplies the identifiers the collector needs on every beacon.
// Implementations may fail; callers propagate the error.
type Identity interface {
	// ClientID returns the partner client id.
	ClientID() (string, error)
	// MerchantIDs returns the merchant encrypted account numbers; the first one is reported.
	MerchantIDs() ([]string, error)
	// PartnerAttributionID returns the BN code, or "" when the integration has none.
	PartnerAttributionID() (string, error)
}

// Static is an Identity with fixed values, typically loaded from config at startup.
type Static struct {
	Client      string
	Merchants   []string
	Attribution string
}

// NewStatic returns a Static identity. merchantIDs is a comma-separated list; blanks are dropped.
func NewStatic(clientID, merchantIDs, attributionID string) *Static {
	return &Static{
		Client:      strings.TrimSpace(clientID),
		Merchants:   SplitList(merchantIDs),
		Attribution: strings.TrimSpace(attributionID),
	}
}

func (s *Static) ClientID() (string, error) { return s.Client, nil }

// MerchantIDs returns a copy so callers cannot mutate the configured list.
func (s *Static) MerchantIDs() ([]string, error) {
	return append([]string(nil), s.Merchants...), nil
}

func (s *Static) PartnerAttributionID() (string, error) { return s.Attribution, nil }

// Anonymous is an Identity with no identifiers. Used when the client is built without one.
type Anonymous struct{}

func (Anonymous) ClientID() (string, error)             { return "", nil }
func (Anonymous) MerchantIDs() ([]string, error)        { return nil, nil }
func (Anonymous) PartnerAttributionID() (string, error) { return "", nil }

// FirstMerchantID returns the first merchant id, or "" when the list is empty.
func FirstMerchantID(id Identity) (string, error) {
	ids, err := id.MerchantIDs()
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", nil
	}
	return ids[0], nil
}

// SplitList splits a comma-separated list, trimming whitespace and dropping empty entries.
func SplitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
