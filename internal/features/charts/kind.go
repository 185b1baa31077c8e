package charts

// Kind identifies one of the fixed dashboard figures.
type Kind int

const (
	Figure1 Kind = iota + 1 // survival probability by passenger class
	Figure2                 // passenger count by survival
	Figure3                 // survival probability by sex
	Figure4                 // survival split per sex, pie charts
	Figure5                 // age histograms faceted by survival
	Figure6                 // family size distribution
	Figure7                 // embarkation port vs ticket class heatmap
)

var kindIDs = [...]string{
	Figure1: "figure1",
	Figure2: "figure2",
	Figure3: "figure3",
	Figure4: "figure4",
	Figure5: "figure5",
	Figure6: "figure6",
	Figure7: "figure7",
}

// Kinds lists every figure in display order.
func Kinds() []Kind {
	return []Kind{Figure1, Figure2, Figure3, Figure4, Figure5, Figure6, Figure7}
}

// ParseKind maps a figure id such as "figure3" to its Kind.
func ParseKind(id string) (Kind, bool) {
	for _, k := range Kinds() {
		if kindIDs[k] == id {
			return k, true
		}
	}
	return 0, false
}

func (k Kind) Valid() bool {
	return k >= Figure1 && k <= Figure7
}

// String returns the figure id used in URLs.
func (k Kind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return kindIDs[k]
}

// Title is the heading drawn on the figure.
func (k Kind) Title() string {
	switch k {
	case Figure1:
		return "Survival Probability by Passenger Class"
	case Figure2:
		return "Survival Count by Category"
	case Figure3:
		return "Survival Probability by Sex"
	case Figure4:
		return "Distribution of Passengers by Sex and Survival Status"
	case Figure5:
		return "Distribution of Survived by Age"
	case Figure6:
		return "Distribution of Family Size"
	case Figure7:
		return "Relationship between Embarkation Port and Ticket Class"
	default:
		return ""
	}
}

// Size is the figure size in pixels.
func (k Kind) Size() (width, height int) {
	switch k {
	case Figure4:
		return 1000, 600
	case Figure5:
		return 1000, 500
	case Figure6:
		return 600, 400
	default:
		return 640, 480
	}
}
