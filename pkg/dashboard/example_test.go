package dashboard_test

import (
	"fmt"
	"log"

	"github.com/mhuels/gridpack/pkg/dashboard"
)

// ExampleDashboard_ApplyLayout builds a dashboard, computes a layout for
// its widgets, and writes the positions back into the document.
func ExampleDashboard_ApplyLayout() {
	d := dashboard.New("Ops Overview", 12)
	d.AddWidget(dashboard.Widget{ID: "cpu", Title: "CPU", W: 6, H: 3})
	d.AddWidget(dashboard.Widget{ID: "mem", Title: "Memory", W: 6, H: 3})
	d.AddWidget(dashboard.Widget{ID: "log", Title: "Log Tail", H: 4, Span: dashboard.SpanFull})

	layout, err := d.Grid().Rebuild(d.Requests())
	if err != nil {
		log.Fatal(err)
	}
	if err := d.ApplyLayout(layout); err != nil {
		log.Fatal(err)
	}

	for _, w := range d.Widgets {
		fmt.Printf("%s at (%d,%d) %dx%d\n", w.ID, w.X, w.Y, w.W, w.H)
	}
	// Output:
	// cpu at (0,0) 6x3
	// mem at (6,0) 6x3
	// log at (0,3) 12x4
}

// ExampleUnmarshalDashboard parses a dashboard document from JSON.
func ExampleUnmarshalDashboard() {
	data := []byte(`{
		"id": "d1",
		"name": "Sales",
		"cols": 12,
		"widgets": [
			{"id": "rev", "title": "Revenue", "x": 0, "y": 0, "w": 8, "h": 4},
			{"id": "top", "title": "Top Products", "x": 8, "y": 0, "w": 4, "h": 4}
		]
	}`)

	d, err := dashboard.UnmarshalDashboard(data)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s: %d widgets on %d columns\n", d.Name, len(d.Widgets), d.Cols)
	// Output:
	// Sales: 2 widgets on 12 columns
}
