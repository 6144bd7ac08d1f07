package layout

import (
	"fmt"

	"github.com/gardar/inspectdoc/pkg/record"
)

var (
	PassColor = Color{39, 174, 96}
	FailColor = Color{192, 57, 43}
	NAColor   = MidGray
	AreaFill  = Color{214, 234, 248}
)

// StatusColor returns the status cell fill for s
func StatusColor(s record.Status) Color {
	switch s.Normalize() {
	case record.StatusPass:
		return PassColor
	case record.StatusFail:
		return FailColor
	default:
		return NAColor
	}
}

// Photo is an image queued for the photo grid
type Photo struct {
	Data    string // Data URI
	Caption string
}

// FindingsResult is collected in the same pass that draws the findings table
type FindingsResult struct {
	Tally  record.Tally
	Photos []Photo
}

// FindingsColumns is the column set of the findings table
var FindingsColumns = []Column{
	{Header: "#", HeaderAr: "م", Width: 0.07, Align: "C"},
	{Header: "Category", HeaderAr: "الفئة", Width: 0.18},
	{Header: "Inspection Point", HeaderAr: "نقطة الفحص", Width: 0.27},
	{Header: "Status", HeaderAr: "الحالة", Width: 0.13, Align: "C"},
	{Header: "Notes", HeaderAr: "ملاحظات", Width: 0.35},
}

// Findings draws every item grouped by area and returns the status tally and the
// photos in area/item order. Records with no items get a bilingual notice instead.
func Findings(rc *RenderContext, areas []record.Area, style TextStyle) FindingsResult {
	var res FindingsResult

	items := 0
	for _, a := range areas {
		items += len(a.Items)
	}
	if items == 0 {
		rc.SetTextColor(MidGray)
		rc.Bilingual("No items were inspected.", "لم يتم فحص أي عناصر.", TextStyle{FontSize: style.FontSize})
		rc.SetTextColor(Black)
		return res
	}

	t := NewTable(FindingsColumns, style)
	t.Begin(rc)
	for ai, a := range areas {
		if len(a.Items) == 0 {
			continue
		}
		t.Band(rc, record.OrNotSpecified(a.Name), fmt.Sprintf("المنطقة %d", ai+1), AreaFill)
		for ii, it := range a.Items {
			status := it.Status.Normalize()
			res.Tally.Add(status)
			fill := StatusColor(status)
			white := White
			t.Row(rc, []Cell{
				{Text: fmt.Sprintf("%d.%d", ai+1, ii+1)},
				{Text: it.Category},
				{Text: it.Point},
				{Text: string(status), TextAr: status.Arabic(), Bold: true, Align: "C", Fill: &fill, TextColor: &white},
				{Text: it.Notes()},
			})
			for _, p := range it.Photos {
				res.Photos = append(res.Photos, Photo{Data: p.Base64, Caption: photoCaption(a, it, p)})
			}
		}
	}
	t.End(rc)
	return res
}

// CollectPhotos flattens the photos of every item in area/item order
func CollectPhotos(areas []record.Area) []Photo {
	var out []Photo
	for _, a := range areas {
		for _, it := range a.Items {
			for _, p := range it.Photos {
				out = append(out, Photo{Data: p.Base64, Caption: photoCaption(a, it, p)})
			}
		}
	}
	return out
}

func photoCaption(a record.Area, it record.Item, p record.Photo) string {
	caption := fmt.Sprintf("%s: %s", a.Name, it.Point)
	if p.Name != "" {
		caption = fmt.Sprintf("%s (%s)", caption, p.Name)
	}
	return caption
}
