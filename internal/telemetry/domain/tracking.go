package domain

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Endpoint is the FPTI collection endpoint every beacon is sent to.
const Endpoint = "https://t.paypal.com/ts"

// Namespace tags identifying the shopping SDK to the collector.
const (
	ProductTag   = "ppshopping_v2"
	ComponentTag = "ppshoppingsdk_v2"
)

// Semantic field names of an event Record.
const (
	FieldDeviceHeight           = "deviceHeight"
	FieldDeviceWidth            = "deviceWidth"
	FieldBrowserHeight          = "browserHeight"
	FieldBrowserWidth           = "browserWidth"
	FieldColorDepth             = "colorDepth"
	FieldScreenHeight           = "screenHeight"
	FieldScreenWidth            = "screenWidth"
	FieldDeviceType             = "deviceType"
	FieldBrowserType            = "browserType"
	FieldRosettaLanguage        = "rosettaLanguage"
	FieldLocation               = "location"
	FieldConfidenceScore        = "confidenceScore"
	FieldIdentificationType     = "identificationType"
	FieldEncryptedAccountNumber = "encryptedAccountNumber"
	FieldPropertyID             = "propertyId"
	FieldEventName              = "eventName"
	FieldEventType              = "eventType"
	FieldEventData              = "eventData"
	FieldPage                   = "page"
	FieldImpression             = "e"
	FieldTimestamp              = "t"
	FieldTimezoneOffset         = "g"
	FieldMerchantUserID         = "merchantProvidedUserId"
	FieldShopperID              = "shopperId"
	FieldCartID                 = "cartId"
	FieldEventState             = "es"
	FieldFlowType               = "fltp"
	FieldOfferID                = "offer_id"
)

// Record is a semi-structured event keyed by semantic field name. No field is required.
type Record map[string]any

// String returns the field as a string, or "" when absent or not a string.
func (r Record) String(field string) string {
	s, _ := r[field].(string)
	return s
}

// Merge copies layers into a new Record left to right; later layers win on key collision.
func Merge(layers ...Record) Record {
	n := 0
	for _, l := range layers {
		n += len(l)
	}
	out := make(Record, n)
	for _, l := range layers {
		for k, v := range l {
			out[k] = v
		}
	}
	return out
}

// ContainerSummary is the merchant container summary; ProgramID is the store-cash offer program.
type ContainerSummary struct {
	ProgramID string `yaml:"programId" json:"programId"`
}

// Config is the read-only client configuration captured at construction time.
type Config struct {
	// ContainerSummary is optional; consulted only by page_view enrichment.
	ContainerSummary *ContainerSummary
	// PropertyID is the XO container id reported as "item" when the event does not carry one.
	PropertyID string
}

// ProgramID returns the configured offer program id, or "" when none is configured.
func (c Config) ProgramID() string {
	if c.ContainerSummary == nil {
		return ""
	}
	return c.ContainerSummary.ProgramID
}

// Beacon is a single outbound tracking emission.
type Beacon struct {
	ID        string    `json:"id"`
	Endpoint  string    `json:"endpoint"`
	Params    Variables `json:"params"`
	CreatedAt time.Time `json:"createdAt"`
}

// URL returns the endpoint with Params encoded as its query string.
func (b *Beacon) URL() (string, error) {
	u, err := url.Parse(b.Endpoint)
	if err != nil {
		return "", fmt.Errorf("beacon: invalid endpoint %q: %w", b.Endpoint, err)
	}
	u.RawQuery = b.Params.Values().Encode()
	return u.String(), nil
}

// FormatValue renders a payload value the way the collector expects it on the wire.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
