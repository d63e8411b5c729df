package telemetry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"shopping-fpti/internal/session"
	"shopping-fpti/internal/telemetry/domain"
)

// renames maps each tracking key to the record field it is copied from verbatim.
var renames = []struct {
	key   string
	field string
}{
	{domain.KeyDeviceHeight, domain.FieldDeviceHeight},
	{domain.KeyDeviceWidth, domain.FieldDeviceWidth},
	{domain.KeyBrowserHeight, domain.FieldBrowserHeight},
	{domain.KeyBrowserWidth, domain.FieldBrowserWidth},
	{domain.KeyColorDepth, domain.FieldColorDepth},
	{domain.KeyScreenHeight, domain.FieldScreenHeight},
	{domain.KeyScreenWidth, domain.FieldScreenWidth},
	{domain.KeyDeviceType, domain.FieldDeviceType},
	{domain.KeyBrowserType, domain.FieldBrowserType},
	{domain.KeyRosettaLanguage, domain.FieldRosettaLanguage},
	// page domain & path
	{domain.KeyLocation, domain.FieldLocation},
	// identification confidence score
	{domain.KeyConfidenceScore, domain.FieldConfidenceScore},
	// identification type returned by VPNS
	{domain.KeyIdentifierUsed, domain.FieldIdentificationType},
	// unverified encrypted customer account number
	{domain.KeyCustomer, domain.FieldEncryptedAccountNumber},
	// XO container id
	{domain.KeyItem, domain.FieldPropertyID},
	{domain.KeyEventName, domain.FieldEventName},
	{domain.KeyEventType, domain.FieldEventType},
	// page and pgrp are both legacy Herald filters fed from the same field.
	{domain.KeyPage, domain.FieldPage},
	{domain.KeyPageGroup, domain.FieldPage},
	{domain.KeyImpression, domain.FieldImpression},
	{domain.KeyTimestamp, domain.FieldTimestamp},
	{domain.KeyTimezoneOffset, domain.FieldTimezoneOffset},
	{domain.KeyExternalID, domain.FieldMerchantUserID},
	{domain.KeyShopperID, domain.FieldShopperID},
	{domain.KeyMerchantCartID, domain.FieldCartID},
	{domain.KeyEventState, domain.FieldEventState},
	{domain.KeyFlowType, domain.FieldFlowType},
	{domain.KeyOfferID, domain.FieldOfferID},
}

// ResolveTrackingVariables projects an enriched record onto the collector's short-key schema.
// Every key in domain.VariableKeys is present in the result; absent source fields map to nil.
// mrid, client_id and bn_code always come from id, never from rec.
func ResolveTrackingVariables(rec domain.Record, id session.Identity) (domain.Variables, error) {
	out := make(domain.Variables, len(domain.VariableKeys))
	for _, r := range renames {
		out[r.key] = rec[r.field]
	}
	out[domain.KeyComponent] = domain.ComponentTag
	out[domain.KeyProduct] = domain.ProductTag

	sinfo, err := serializeEventData(rec[domain.FieldEventData])
	if err != nil {
		return nil, err
	}
	out[domain.KeyEventData] = sinfo

	if id == nil {
		id = session.Anonymous{}
	}
	mrid, err := session.FirstMerchantID(id)
	if err != nil {
		return nil, fmt.Errorf("telemetry: resolve merchant id: %w", err)
	}
	out[domain.KeyMerchantID] = mrid
	clientID, err := id.ClientID()
	if err != nil {
		return nil, fmt.Errorf("telemetry: resolve client id: %w", err)
	}
	out[domain.KeyClientID] = clientID
	bn, err := id.PartnerAttributionID()
	if err != nil {
		return nil, fmt.Errorf("telemetry: resolve partner attribution id: %w", err)
	}
	out[domain.KeyBNCode] = bn
	return out, nil
}

// serializeEventData returns the JSON text of data, or nil when data is absent.
// HTML characters are written as-is.
func serializeEventData(data any) (any, error) {
	if data == nil {
		return nil, nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return nil, fmt.Errorf("telemetry: serialize eventData: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
