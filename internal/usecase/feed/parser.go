package feed

import (
	"fmt"
	"strconv"
	"strings"

	feedv1 "github.com/kerwei/orderbook/internal/domain/feed/v1"
	orderbookv1 "github.com/kerwei/orderbook/internal/domain/orderbook/v1"
)

// ParseEntry parses one order-entry record.
//
// Grammar, one order per line:
//
//	id,side,price,quantity[,disclosed]
//
// side is B or S; fields tolerate surrounding whitespace; a fifth field
// marks an iceberg order and gives its disclosed slice size. Anything
// else is a malformed entry.
func ParseEntry(line string) (*feedv1.OrderEntry, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 4 || len(fields) > 5 {
		return nil, fmt.Errorf("%w: expected 4 or 5 fields, got %d", feedv1.ErrMalformedEntry, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	id := fields[0]
	if id == "" {
		return nil, fmt.Errorf("%w: empty order id", feedv1.ErrMalformedEntry)
	}

	side := orderbookv1.Side(fields[1])
	if !side.Valid() {
		return nil, fmt.Errorf("%w: unknown side %q", feedv1.ErrMalformedEntry, fields[1])
	}

	price, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad price %q", feedv1.ErrMalformedEntry, fields[2])
	}

	qty, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad quantity %q", feedv1.ErrMalformedEntry, fields[3])
	}

	var disclosed int64
	if len(fields) == 5 {
		disclosed, err = strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad disclosed quantity %q", feedv1.ErrMalformedEntry, fields[4])
		}
	}

	return &feedv1.OrderEntry{
		ID:           id,
		Side:         side,
		Price:        price,
		Qty:          qty,
		DisclosedQty: disclosed,
	}, nil
}
