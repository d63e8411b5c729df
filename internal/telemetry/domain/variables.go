package domain

import (
	"net/url"
	"sort"
)

// Tracking variable keys understood by the collection endpoint.
const (
	KeyDeviceHeight    = "dh"
	KeyDeviceWidth     = "dw"
	KeyBrowserHeight   = "bh"
	KeyBrowserWidth    = "bw"
	KeyColorDepth      = "cd"
	KeyScreenHeight    = "sh"
	KeyScreenWidth     = "sw"
	KeyDeviceType      = "dvis"
	KeyBrowserType     = "btyp"
	KeyRosettaLanguage = "rosetta_language"
	KeyLocation        = "ru"
	KeyConfidenceScore = "unsc"
	KeyIdentifierUsed  = "identifier_used"
	KeyCustomer        = "cust"
	KeyItem            = "item"
	KeyMerchantID      = "mrid"
	KeyClientID        = "client_id"
	KeyBNCode          = "bn_code"
	KeyEventName       = "event_name"
	KeyEventType       = "event_type"
	KeyEventData       = "sinfo"
	KeyPage            = "page"
	KeyPageGroup       = "pgrp"
	KeyComponent       = "comp"
	KeyImpression      = "e"
	KeyTimestamp       = "t"
	KeyTimezoneOffset  = "g"
	KeyExternalID      = "external_id"
	KeyShopperID       = "shopper_id"
	KeyMerchantCartID  = "merchant_cart_id"
	KeyProduct         = "product"
	KeyEventState      = "es"
	KeyFlowType        = "fltp"
	KeyOfferID         = "offer_id"
)

// VariableKeys is the complete output schema. Resolved Variables always carry exactly these keys.
var VariableKeys = []string{
	KeyDeviceHeight, KeyDeviceWidth, KeyBrowserHeight, KeyBrowserWidth,
	KeyColorDepth, KeyScreenHeight, KeyScreenWidth, KeyDeviceType, KeyBrowserType,
	KeyRosettaLanguage, KeyLocation, KeyConfidenceScore, KeyIdentifierUsed,
	KeyCustomer, KeyItem, KeyMerchantID, KeyClientID, KeyBNCode,
	KeyEventName, KeyEventType, KeyEventData, KeyPage, KeyPageGroup, KeyComponent,
	KeyImpression, KeyTimestamp, KeyTimezoneOffset, KeyExternalID, KeyShopperID,
	KeyMerchantCartID, KeyProduct, KeyEventState, KeyFlowType, KeyOfferID,
}

// Variables is the flat short-key tracking payload.
type Variables map[string]any

// Values encodes the payload as query parameters.
func (v Variables) Values() url.Values {
	out := make(url.Values, len(v))
	for k, val := range v {
		out.Set(k, FormatValue(val))
	}
	return out
}

// Keys returns the present keys in sorted order.
func (v Variables) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
