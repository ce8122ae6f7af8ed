package notifier

import (
	"fmt"
	"html"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"PivotDesk/internal/model"
)

// closingRemarks end every summary; Narrator.Template picks one.
var closingRemarks = []string{
	"⚠️ If the scenario breaks, exit fast and wait for the next setup.",
	"⚠️ The stop is part of the plan: once it is hit the idea is void.",
	"⚠️ Start small and add only once price respects the zone.",
}

// Narrator renders decisions as short human-readable messages. The summary
// deliberately names no levels and no indicators; those belong to the
// diagnostics view.
type Narrator struct {
	Template int  // index into the closing remarks, taken modulo their count
	HTML     bool // wrap emphasis in Telegram HTML tags
}

func NewNarrator(template int, html bool) *Narrator {
	return &Narrator{Template: template, HTML: html}
}

func (n *Narrator) bold(s string) string {
	if n.HTML {
		return "<b>" + s + "</b>"
	}
	return s
}

func (n *Narrator) escape(s string) string {
	if n.HTML {
		return html.EscapeString(s)
	}
	return s
}

func (n *Narrator) closing() string {
	i := n.Template % len(closingRemarks)
	if i < 0 {
		i += len(closingRemarks)
	}
	return closingRemarks[i]
}

// Summary is the message shown to the user for one decision.
func (n *Narrator) Summary(symbol string, d *model.Decision) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 %s | %s | last price %s\n",
		n.bold(n.escape(symbol)), d.Diagnostics.Horizon.Label(), n.bold(FormatPrice(d.Diagnostics.Price)))

	switch d.Stance {
	case model.StanceBuy:
		fmt.Fprintf(&b, "✅ Base plan: %s, buy carefully into support.\n", n.bold("LONG"))
	case model.StanceShort:
		fmt.Fprintf(&b, "✅ Base plan: %s, sell into the ceiling without chasing.\n", n.bold("SHORT"))
	default:
		fmt.Fprintf(&b, "✅ Base plan: %s, no entry at current prices.\n", n.bold("WAIT"))
		if d.HasPlan() {
			b.WriteString("If price comes to us, the plan is:\n")
		}
	}

	if d.Entry != nil {
		fmt.Fprintf(&b, "🎯 Entry zone: %s … %s\n", FormatPrice(d.Entry.Low), FormatPrice(d.Entry.High))
	}
	if d.Target1 != nil {
		targets := FormatPrice(*d.Target1)
		if d.Target2 != nil {
			targets += " / " + FormatPrice(*d.Target2)
		}
		fmt.Fprintf(&b, "📌 Targets: %s\n", targets)
	}
	if d.Stop != nil {
		fmt.Fprintf(&b, "🛡 Stop: %s\n", FormatPrice(*d.Stop))
	}
	b.WriteString(n.closing())
	return b.String()
}

// FormatDiagnostics is the opt-in operator view of a decision.
func FormatDiagnostics(symbol string, d *model.Decision) string {
	dg := d.Diagnostics
	ind := dg.Indicators
	var b strings.Builder

	fmt.Fprintf(&b, "🔍 Diagnostics %s\n", symbol)
	fmt.Fprintf(&b, "horizon: %s (%s)\n", dg.Horizon, dg.Horizon.Label())
	fmt.Fprintf(&b, "price: %s on %s\n", FormatPrice(dg.Price), dg.LastDate.Format("2006-01-02"))

	period := fmt.Sprintf("%s %s..%s", dg.PeriodLabel,
		dg.PeriodStart.Format("2006-01-02"), dg.PeriodEnd.Format("2006-01-02"))
	if dg.PeriodFallback {
		period += " (empty, trailing bars used)"
	}
	fmt.Fprintf(&b, "period: %s\n", period)

	l := dg.Ladder
	fmt.Fprintf(&b, "pivots: S3 %s | S2 %s | S1 %s | P %s | R1 %s | R2 %s | R3 %s\n",
		FormatPrice(l.S3), FormatPrice(l.S2), FormatPrice(l.S1), FormatPrice(l.P),
		FormatPrice(l.R1), FormatPrice(l.R2), FormatPrice(l.R3))
	fmt.Fprintf(&b, "trend streak: %+d | momentum streak: %+d\n", ind.TrendStreak, ind.MomentumStreak)
	fmt.Fprintf(&b, "oscillator: %.1f | volatility: %s\n", ind.Oscillator, FormatPrice(ind.Volatility))
	fmt.Fprintf(&b, "near level: %s\n", dg.NearLevel)
	fmt.Fprintf(&b, "stance: %s", d.Stance)
	if d.Shadow {
		b.WriteString(" (shadow plan)")
	}
	b.WriteString("\n")

	c := dg.Context
	if c.SMA200 > 0 {
		fmt.Fprintf(&b, "SMA200: %s\n", FormatPrice(c.SMA200))
	}
	fmt.Fprintf(&b, "52w range: %s … %s (position %.0f%%)",
		FormatPrice(c.Low52w), FormatPrice(c.High52w), c.Position52w*100)
	return b.String()
}

// FormatPrice rounds half away from zero to two decimals (four below 1)
// and groups thousands.
func FormatPrice(v float64) string {
	places := int32(2)
	if v > -1 && v < 1 {
		places = 4
	}
	d := decimal.NewFromFloat(v).Round(places)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	whole := d.Truncate(0)
	frac := d.Sub(whole).StringFixed(places) // "0.xx"
	return sign + humanize.Comma(whole.IntPart()) + frac[1:]
}
