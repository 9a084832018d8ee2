package presenter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kanoon-saral/api/internal/simplify"
)

func TestExportText(t *testing.T) {
	res := simplify.Result{OriginalText: "The lessee shall pay.", Simplified: "## Simple\nPay rent."}
	require.Equal(t,
		"ORIGINAL DOCUMENT:\n\nThe lessee shall pay.\n\n\nSIMPLIFIED VERSION:\n\n## Simple\nPay rent.",
		ExportText(res))
	require.Equal(t, "simplified-document.txt", ExportFilename)
}

func TestReadingMinutes(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 1},
		{"one", 1},
		{strings.Repeat("w ", 199) + "w", 1},
		{strings.Repeat("w ", 200) + "w", 2},
		{strings.Repeat("w ", 999) + "w", 5},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ReadingMinutes(tc.text))
	}
}

func TestSummary(t *testing.T) {
	res := simplify.Result{Simplified: "short text", ProcessingTime: 2340 * time.Millisecond}
	require.Equal(t, "1 min read · processed in 2.3s", Summary(res))
}

func TestRenderHTML(t *testing.T) {
	out, err := RenderHTML("## यह क्या है?\n\n- **Rent** is due monthly\n- Deposit: ₹50,000")
	require.NoError(t, err)
	require.Contains(t, out, "<h2>यह क्या है?</h2>")
	require.Contains(t, out, "<li><strong>Rent</strong> is due monthly</li>")
}

func TestRenderHTMLDropsRawHTML(t *testing.T) {
	out, err := RenderHTML("<script>alert(1)</script>\n\nHello <b onclick=\"x\">there</b>")
	require.NoError(t, err)
	require.NotContains(t, out, "<script>")
	require.NotContains(t, out, "onclick")
	require.Contains(t, out, "Hello")
}

func TestPlainText(t *testing.T) {
	in := "## Title\n\n- a\n- **b**\n\nPara one\nline two\n\n<div>gone</div>\n"
	require.Equal(t, "Title\n\n• a\n• b\n\nPara one\nline two", PlainText(in))
}

func TestPlainTextKeepsTableCells(t *testing.T) {
	in := "## Key amounts\n\n| Item | Amount |\n|---|---|\n| Rent | ₹15,000 |\n| Due date | 5th of each month |\n\nPay on time.\n"
	out := PlainText(in)
	require.Contains(t, out, "₹15,000")
	require.Equal(t, "Key amounts\n\nItem | Amount\nRent | ₹15,000\nDue date | 5th of each month\n\nPay on time.", out)
}

func TestPlainTextNumbersOrderedLists(t *testing.T) {
	require.Equal(t, "Steps\n\n1. Pay rent\n2. Keep receipts", PlainText("Steps\n\n1. Pay rent\n2. Keep receipts\n"))
	require.Equal(t, "3. Notice\n4. Vacate", PlainText("3. Notice\n4. Vacate\n"))
	require.Equal(t, "• a\n• b", PlainText("- a\n- b\n"))
}
