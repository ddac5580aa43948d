// Package fingerprint computes the content hash stored with each inventory
// submission at creation time and recomputed at decision time to detect
// mutation of the underlying record in between.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// PlainPrice renders a price in plain decimal notation preserving the scale
// it was entered with: "10.00", "10.0" and "10" stay three distinct texts.
// This is the rendering hashed into the fingerprint and stored in the
// unit_price column, so the decision-time recompute reads back exactly the
// text that was hashed at creation.
func PlainPrice(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}

// Compute returns a lowercase hex SHA-256 digest over the item's mutable
// fields. Strings are trimmed of surrounding whitespace. The price is
// rendered with PlainPrice, so a change in decimal formatting alone changes
// the digest. Labeled, pipe-separated fields keep distinct inputs from
// producing the same concatenation.
func Compute(sku, name string, quantity int, unitPrice decimal.Decimal, description, category, location string) string {
	var b strings.Builder
	b.WriteString("sku=")
	b.WriteString(strings.TrimSpace(sku))
	b.WriteString("|name=")
	b.WriteString(strings.TrimSpace(name))
	b.WriteString("|qty=")
	b.WriteString(strconv.Itoa(quantity))
	b.WriteString("|price=")
	b.WriteString(PlainPrice(unitPrice))
	b.WriteString("|desc=")
	b.WriteString(strings.TrimSpace(description))
	b.WriteString("|cat=")
	b.WriteString(strings.TrimSpace(category))
	b.WriteString("|loc=")
	b.WriteString(strings.TrimSpace(location))

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
