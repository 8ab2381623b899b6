package habit

// Category groups habits and gives them a display colour.
type Category struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

const OtherCategory = "Others"

var Categories = []Category{
	{Name: "Workout", Color: "#D4F9CC"},
	{Name: "Study", Color: "#C6DEF1"},
	{Name: "Healthy Eating", Color: "#F4A166"},
	{Name: "Hobbies", Color: "#FDFD96"},
	{Name: "Self Care", Color: "#FACAD4"},
	{Name: "Finance", Color: "#97B3AE"},
	{Name: "Productivity", Color: "#F08080"},
	{Name: "Mindfulness", Color: "#B399D4"},
	{Name: OtherCategory, Color: "#FFDBD1"},
}

// ColorFor returns the colour of the named category, falling back to the
// colour of OtherCategory.
func ColorFor(category string) string {
	for _, c := range Categories {
		if c.Name == category {
			return c.Color
		}
	}
	return Categories[len(Categories)-1].Color
}
