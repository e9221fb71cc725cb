package orderbook

import (
	"fmt"
	"strings"
)

// Render cell widths follow the original book display: volumes take 11
// characters with comma separators, prices 6, columns joined by " | ".
const (
	volumeWidth = 11
	priceWidth  = 6
	cellWidth   = volumeWidth + 1 + priceWidth
)

var blankCell = strings.Repeat(" ", cellWidth)

// Render produces the two-column bid/ask view of the book: bid levels
// on the left (volume, price) best to worst, ask levels on the right
// (price, volume) best to worst, rows aligned so index 0 of each
// column is the respective best price. Level volumes are the aggregate
// visible quantity; hidden iceberg size never shows. Pure read-only
// projection.
func Render(b *Book) string {
	bids := b.Bids()
	asks := b.Asks()

	rows := len(bids)
	if len(asks) > rows {
		rows = len(asks)
	}

	var sb strings.Builder
	for i := 0; i < rows; i++ {
		bid, ask := blankCell, blankCell
		if i < len(bids) {
			bid = fmt.Sprintf("%*s %*d", volumeWidth, groupDigits(bids[i].VisibleVolume()), priceWidth, bids[i].Price)
		}
		if i < len(asks) {
			ask = fmt.Sprintf("%*d %*s", priceWidth, asks[i].Price, volumeWidth, groupDigits(asks[i].VisibleVolume()))
		}
		sb.WriteString(bid)
		sb.WriteString(" | ")
		sb.WriteString(ask)
		sb.WriteByte('\n')
	}

	return sb.String()
}

// groupDigits formats n with comma thousand separators.
func groupDigits(n int64) string {
	s := fmt.Sprintf("%d", n)

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	var sb strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(digit)
	}

	if neg {
		return "-" + sb.String()
	}
	return sb.String()
}
