package service

import (
	"strings"
	"time"

	"bloodconnect/internal/printer/escpos"
)

// LineWidth is the column count of an 80mm roll in font A.
const LineWidth = 48

const (
	orgName   = "Sindh Blood Transfusion Authority (SBTA)"
	poweredBy = "Powered by Sunbonn"
	rule      = "================================"
	thinRule  = "--------------------------------"
)

// SlipData is what every slip prints about the donor.
type SlipData struct {
	FullName   string
	NationalID string
	CouponCode string
}

// dotLeader fills the gap between label and value with dots.
func dotLeader(label, value string) string {
	n := LineWidth - len(label) - len(value)
	if n < 2 {
		n = 2
	}
	return label + strings.Repeat(".", n) + value
}

type stamp struct {
	date string
	time string
}

func newStamp(at time.Time) stamp {
	return stamp{date: at.Format("02/01/2006"), time: at.Format("03:04 PM")}
}

// RenderDonorSlips returns one job holding the donor copy, the lucky-draw entry
// and the office copy, each followed by a partial cut.
func RenderDonorSlips(d SlipData, at time.Time) []byte {
	s := newStamp(at)
	return escpos.New().
		Append(donorCopy(d, s)).
		Append(luckyDraw(d, s)).
		Append(officeCopy(d, s)).
		Bytes()
}

func header(b *escpos.Builder, number, title string) {
	b.Align(escpos.AlignCenter).
		Style(escpos.StyleBold).Line(number).Blank()
	if title != "" {
		b.Style(escpos.StyleBold | escpos.StyleUnderline).Line(title)
	}
	b.Style(escpos.StyleNone).Line(orgName).Line(poweredBy).Blank()
}

func banner(b *escpos.Builder, text string) {
	b.Style(escpos.StyleBold).Reverse(true).Line(text).Reverse(false).Style(escpos.StyleNone).Blank()
}

func couponBox(b *escpos.Builder, code string, labelled bool) {
	b.Line(rule)
	if labelled {
		b.Style(escpos.StyleBold).Line("COUPON CODE")
	}
	b.Style(escpos.StyleDoubleHeight | escpos.StyleDoubleWidth).Line(code).
		Style(escpos.StyleNone).Line(rule).Blank()
}

func donorCopy(d SlipData, s stamp) *escpos.Builder {
	b := escpos.New()
	header(b, "(1)", "")
	banner(b, "   DONOR COPY   ")
	couponBox(b, d.CouponCode, true)
	b.Align(escpos.AlignLeft).
		Line(dotLeader("Name:", d.FullName)).
		Line(dotLeader("CNIC:", d.NationalID)).
		Line(dotLeader("Date:", s.date)).
		Line(dotLeader("Time:", s.time)).
		Blank().
		Line("Instructions:").
		Line("  * Keep this slip safe").
		Line("  * Present at screening station").
		Line("  * Show coupon code to staff").
		Line("  * Valid for today only").
		Blank().
		Align(escpos.AlignCenter).
		Line("Thank you for saving lives!").
		Line("Printed: " + s.date + " " + s.time).
		Blank().Blank().
		PartialCut(3)
	return b
}

func luckyDraw(d SlipData, s stamp) *escpos.Builder {
	b := escpos.New()
	header(b, "(2)", "LUCKY DRAW ENTRY")
	banner(b, "    COUPON CODE    ")
	couponBox(b, d.CouponCode, false)
	b.Align(escpos.AlignLeft).
		Line(dotLeader("Name:", d.FullName)).
		Line(dotLeader("CNIC:", d.NationalID)).
		Line(dotLeader("Date:", s.date)).
		Blank().
		Line("Instructions:").
		Line("  * Put the coupon in the lucky draw").
		Line("  * Winner will be informed via call").
		Blank().
		Align(escpos.AlignCenter).
		Line("Good Luck!").
		Line("Entry: " + s.date + " " + s.time).
		Blank().Blank().
		PartialCut(3)
	return b
}

func officeCopy(d SlipData, s stamp) *escpos.Builder {
	b := escpos.New()
	header(b, "(3)", "SBTA INTERNAL")
	banner(b, "    OFFICE COPY - FILE    ")
	couponBox(b, d.CouponCode, true)
	b.Align(escpos.AlignLeft).
		Line(dotLeader("Name:", d.FullName)).
		Line(dotLeader("CNIC:", d.NationalID)).
		Line(dotLeader("Reg. Date:", s.date)).
		Line(dotLeader("Reg. Time:", s.time)).
		Blank().
		Line(thinRule).
		Blank().
		Align(escpos.AlignCenter).
		Style(escpos.StyleBold).Line("SBTA USE ONLY").Style(escpos.StyleNone).
		Line("Printed: " + s.date + " " + s.time).
		Blank().
		PartialCut(5)
	return b
}

// RenderTestPage prints a short page that proves the connection end to end.
func RenderTestPage(printerName string, at time.Time) []byte {
	return escpos.New().
		Align(escpos.AlignCenter).
		Style(escpos.StyleBold | escpos.StyleUnderline).Line("TEST PRINT").
		Style(escpos.StyleNone).Blank().
		Line("Blood Connect Print Server").
		Line(printerName).
		Blank().
		Line("Date: " + at.Format("02/01/2006")).
		Line("Time: " + at.Format("15:04:05")).
		Blank().
		Line("If you can read this,").
		Line("the printer is working correctly!").
		Blank().Blank().
		PartialCut(3).
		Bytes()
}
