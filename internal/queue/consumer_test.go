package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleMessageAppendsToOrderLog(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	assert.NoError(t, err)
	assert.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	ev := OrderPlacedEvent{
		BatchID:     "a1b2c3d4",
		UserID:      7,
		UserCreated: true,
		Email:       "buyer@shop.tn",
		Phone:       "55123456",
		Payment:     "d17",
		TxNumber:    "TX-99",
		Total:       19.8,
		PlacedAt:    "2026-09-01T10:00:00Z",
		Lines: []OrderEventLine{
			{OrderID: 1, ProductID: 3, ProductName: "Netflix Gift Card", OptionLabel: "1 month", Quantity: 2, UnitPrice: 9.9},
		},
	}
	body, err := json.Marshal(ev)
	assert.NoError(t, err)

	assert.NoError(t, handleMessage(body))
	assert.NoError(t, handleMessage(body)) // second delivery appends

	data, err := os.ReadFile(filepath.Join(dir, "logs", "orders.log"))
	assert.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "batch=a1b2c3d4")
	assert.Contains(t, content, "2x Netflix Gift Card (1 month)")
	assert.Contains(t, content, "new_account=true")
	assert.Equal(t, 2, countLines(content))
}

func countLines(s string) int {
	n := 0
	for _, r := range s {
		if r == '\n' {
			n++
		}
	}
	return n
}

func TestHandleMessageRejectsMalformedBody(t *testing.T) {
	assert.Error(t, handleMessage([]byte("{not json")))
}
