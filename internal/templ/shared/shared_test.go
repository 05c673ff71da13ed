package shared

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlashBanner(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FlashBanner(&Flash{Type: FlashSuccess, Message: "Đã đặt vé"}).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "Đã đặt vé")
	assert.Contains(t, buf.String(), "emerald")

	buf.Reset()
	require.NoError(t, FlashBanner(nil).Render(context.Background(), &buf))
	assert.Empty(t, buf.String())
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1h 05m", FormatDuration(65*time.Minute))
	assert.Equal(t, "45m", FormatDuration(45*time.Minute))
	assert.Equal(t, "", FormatDuration(0))
}

func TestFormatVND(t *testing.T) {
	out := FormatVND(1250000)
	assert.Contains(t, out, "₫")
	assert.Contains(t, out, "250")
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "vừa xong", TimeAgo(now.Add(-10*time.Second), now))
	assert.Equal(t, "3 giờ trước", TimeAgo(now.Add(-3*time.Hour), now))
	assert.Equal(t, "01/05/2024", TimeAgo(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, "", TimeAgo(time.Time{}, now))
}
