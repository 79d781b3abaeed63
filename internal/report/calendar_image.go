// Package report рисует картинки для отправки в Telegram
package report

import (
	"bytes"
	"fmt"
	"image/color"
	"strconv"
	"time"

	"github.com/Freeeeeet/attendance_bot/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Константы размеров и отступов
const (
	cellSize      = 80
	cellPadding   = 4
	marginX       = 20
	headerHeight  = 60
	weekdayHeight = 30
	legendHeight  = 50
	gridRows      = 6
	daysInWeek    = 7

	imageWidth  = marginX*2 + daysInWeek*cellSize
	imageHeight = headerHeight + weekdayHeight + gridRows*cellSize + legendHeight
)

// Цветовая схема
var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 255}
	emptyCellColor = color.RGBA{255, 255, 255, 255}
	presentColor   = color.RGBA{133, 193, 85, 255}
	absentColor    = color.RGBA{235, 87, 87, 255}
	todayColor     = color.RGBA{255, 160, 0, 255}
)

// basicfont умеет только ASCII, поэтому подписи латиницей
var weekdayLabels = [daysInWeek]string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// CalendarImage рисует месяц с отметками посещений: присутствие зелёным, пропуск красным, сегодня в рамке.
// Отметки вне месяца и с неразбираемой датой пропускаются
func CalendarImage(month, today time.Time, records []model.AttendanceRecord) ([]byte, error) {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	marks := marksForMonth(first, records)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	drawHeader(dc, first, marks)
	drawWeekdays(dc)

	daysInMonth := first.AddDate(0, 1, -1).Day()
	for day := 1; day <= daysInMonth; day++ {
		x, y := cellOrigin(first, day)

		fill := emptyCellColor
		if present, ok := marks[day]; ok {
			fill = absentColor
			if present {
				fill = presentColor
			}
		}

		dc.SetColor(fill)
		dc.DrawRoundedRectangle(x+cellPadding, y+cellPadding, cellSize-2*cellPadding, cellSize-2*cellPadding, 6)
		dc.Fill()

		if isSameDay(today, first.Year(), first.Month(), day) {
			dc.SetColor(todayColor)
			dc.SetLineWidth(3)
			dc.DrawRoundedRectangle(x+cellPadding, y+cellPadding, cellSize-2*cellPadding, cellSize-2*cellPadding, 6)
			dc.Stroke()
		}

		dc.SetColor(textColor)
		dc.DrawString(strconv.Itoa(day), x+cellPadding+6, y+cellPadding+16)
	}

	drawLegend(dc)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

// cellOrigin левый верхний угол клетки дня. Неделя начинается с понедельника
func cellOrigin(first time.Time, day int) (float64, float64) {
	offset := (int(first.Weekday()) + 6) % daysInWeek
	idx := offset + day - 1
	col, row := idx%daysInWeek, idx/daysInWeek
	return float64(marginX + col*cellSize), float64(headerHeight + weekdayHeight + row*cellSize)
}

func marksForMonth(first time.Time, records []model.AttendanceRecord) map[int]bool {
	marks := make(map[int]bool)
	for _, rec := range records {
		date, err := model.ParseDate(rec.Date, time.UTC)
		if err != nil {
			continue
		}
		if date.Year() != first.Year() || date.Month() != first.Month() {
			continue
		}
		marks[date.Day()] = rec.Present
	}
	return marks
}

func drawHeader(dc *gg.Context, first time.Time, marks map[int]bool) {
	present := 0
	for _, p := range marks {
		if p {
			present++
		}
	}

	dc.SetColor(textColor)
	dc.DrawStringAnchored(first.Format("January 2006"), imageWidth/2, 22, 0.5, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("present %d / marked %d", present, len(marks)), imageWidth/2, 42, 0.5, 0.5)
}

func drawWeekdays(dc *gg.Context) {
	dc.SetColor(textColor)
	for i, label := range weekdayLabels {
		x := float64(marginX + i*cellSize + cellSize/2)
		dc.DrawStringAnchored(label, x, headerHeight+weekdayHeight/2, 0.5, 0.5)
	}
}

func drawLegend(dc *gg.Context) {
	items := []struct {
		Label string
		Clr   color.Color
	}{
		{"present", presentColor},
		{"absent", absentColor},
		{"today", todayColor},
	}

	x := float64(marginX)
	y := float64(imageHeight - legendHeight + 18)
	for _, item := range items {
		dc.SetColor(item.Clr)
		dc.DrawRoundedRectangle(x, y, 20, 14, 3)
		dc.Fill()

		dc.SetColor(textColor)
		dc.DrawStringAnchored(item.Label, x+28, y+7, 0, 0.5)
		x += 120
	}
}

func isSameDay(t time.Time, year int, month time.Month, day int) bool {
	return t.Year() == year && t.Month() == month && t.Day() == day
}
