// Package ocr recognizes text in scanned documents (bills, referrals)
// and extracts structured receipt fields from the result.
package ocr
