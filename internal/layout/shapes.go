package layout

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/weddingdesk/pkg/models"
)

// sideAngles are the perimeter angles, in seating order, for tables whose
// chairs are grouped by side: top, right, bottom, left.
var sideAngles = [4]float64{270, 0, 90, 180}

// Dimensions returns the width and length of a table built from tpl. Known
// shapes grow with the seat count; other shapes keep the template's size.
func Dimensions(tpl *models.TableTemplate) (width, length float64) {
	n := float64(tpl.SeatCount)
	switch tpl.Shape {
	case models.ShapeRound:
		d := 30 * math.Sqrt(n)
		return d, d
	case models.ShapeRectangular:
		return 80, 40 + 10*n
	case models.ShapeSquare:
		d := 40 + 5*n
		return d, d
	case models.ShapeOval:
		return 70, 40 + 8*n
	default:
		return tpl.BaseWidth, tpl.BaseLength
	}
}

// ChairAngles returns one angle in degrees per seat, in seat order.
//
// Rectangular and square tables put ceil(n/4) seats on each side in the
// order of sideAngles, so several seats share an angle. Every other shape
// spreads seats evenly around a circle starting at 0.
func ChairAngles(shape models.Shape, seatCount int) []float64 {
	if seatCount <= 0 {
		return nil
	}
	angles := make([]float64, seatCount)

	switch shape {
	case models.ShapeRectangular, models.ShapeSquare:
		perSide := (seatCount + 3) / 4
		for i := range angles {
			angles[i] = sideAngles[i/perSide]
		}
	default:
		step := 360 / float64(seatCount)
		for i := range angles {
			angles[i] = float64(i) * step
		}
	}
	return angles
}

// BuildChairs returns the unassigned chairs for table, positions 1..SeatCount.
func BuildChairs(table *models.Table, createdAt time.Time) []*models.Chair {
	angles := ChairAngles(table.Shape, table.SeatCount)
	chairs := make([]*models.Chair, len(angles))
	for i, angle := range angles {
		chairs[i] = &models.Chair{
			ID:        uuid.New(),
			TableID:   table.ID,
			Position:  i + 1,
			Angle:     angle,
			OwnerID:   table.OwnerID,
			CreatedAt: createdAt,
		}
	}
	return chairs
}
