// Package qrcode renders PNG QR codes for review funnel links.
//
//	png, err := qrcode.GenerateURL("https://reviews.example.com/f/acme", 512)
//
// Sizes outside MinSize..MaxSize are rejected.
package qrcode
