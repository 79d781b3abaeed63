package report

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/Freeeeeet/attendance_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pixelAt(t *testing.T, img image.Image, first time.Time, day int) color.RGBA {
	t.Helper()
	x, y := cellOrigin(first, day)
	c := color.RGBAModel.Convert(img.At(int(x)+cellSize/2, int(y)+cellSize/2))
	return c.(color.RGBA)
}

func TestCalendarImage(t *testing.T) {
	month := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	today := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	records := []model.AttendanceRecord{
		{StudentID: "st-1", Date: "2026-03-02", Present: true},
		{StudentID: "st-1", Date: "2026-03-04", Present: false},
		{StudentID: "st-1", Date: "2026-02-27", Present: true},
		{StudentID: "st-1", Date: "broken", Present: true},
	}

	data, err := CalendarImage(month, today, records)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, imageWidth, img.Bounds().Dx())
	assert.Equal(t, imageHeight, img.Bounds().Dy())

	first := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, presentColor, pixelAt(t, img, first, 2))
	assert.Equal(t, absentColor, pixelAt(t, img, first, 4))
	assert.Equal(t, emptyCellColor, pixelAt(t, img, first, 10))
	assert.Equal(t, emptyCellColor, pixelAt(t, img, first, 27))
}

func TestCellOriginStartsWeekOnMonday(t *testing.T) {
	// 1 марта 2026 воскресенье: последняя колонка первой строки
	first := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	x, y := cellOrigin(first, 1)
	assert.Equal(t, float64(marginX+6*cellSize), x)
	assert.Equal(t, float64(headerHeight+weekdayHeight), y)

	x, y = cellOrigin(first, 2)
	assert.Equal(t, float64(marginX), x)
	assert.Equal(t, float64(headerHeight+weekdayHeight+cellSize), y)
}

func TestMarksForMonthLastRecordWins(t *testing.T) {
	first := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	marks := marksForMonth(first, []model.AttendanceRecord{
		{Date: "2026-03-05", Present: false},
		{Date: "2026-03-05", Present: true},
		{Date: "2026-04-05", Present: true},
	})
	assert.Equal(t, map[int]bool{5: true}, marks)
}
