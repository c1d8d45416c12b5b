package orders

import (
	"database/sql"
	"strings"

	"github.com/pawpopart/pawpop-fulfillment/storage/db"
)

// OrderNumber formats the customer-facing order number: PP- followed by the
// last five characters of the order ID.
func OrderNumber(order db.Order) string {
	id := order.ID
	if len(id) > 5 {
		id = id[len(id)-5:]
	}
	return "PP-" + strings.ToUpper(id)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
