// Parameter groups and GUI categories
package param

import (
	"fmt"
	"strings"
)

// Group namespaces parameters by the subsystem that owns them.
type Group int

const (
	GroupParameter Group = iota
	GroupMain
	GroupORBExtractor
	GroupInitialization
	GroupTracking
	GroupRelocalization
	GroupLocalMapping
	GroupLoopClosing
)

var groupNames = map[Group]string{
	GroupParameter:      "PARAMETER",
	GroupMain:           "MAIN",
	GroupORBExtractor:   "ORBEXTRACTOR",
	GroupInitialization: "INITIALIZATION",
	GroupTracking:       "TRACKING",
	GroupRelocalization: "RELOCALIZATION",
	GroupLocalMapping:   "LOCAL_MAPPING",
	GroupLoopClosing:    "LOOP_CLOSING",
}

// Groups returns every group in declaration order.
func Groups() []Group {
	return []Group{
		GroupParameter,
		GroupMain,
		GroupORBExtractor,
		GroupInitialization,
		GroupTracking,
		GroupRelocalization,
		GroupLocalMapping,
		GroupLoopClosing,
	}
}

func (g Group) String() string {
	if name, ok := groupNames[g]; ok {
		return name
	}
	return fmt.Sprintf("GROUP(%d)", int(g))
}

// ParseGroup resolves a group name such as "TRACKING" or "loop_closing".
func ParseGroup(name string) (Group, error) {
	for _, g := range Groups() {
		if strings.EqualFold(groupNames[g], strings.TrimSpace(name)) {
			return g, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrGroupNotFound, name)
}

// Category selects the control shape a parameter is rendered as.
type Category int

const (
	// CategoryMinMax is a bounded numeric slider.
	CategoryMinMax Category = iota
	// CategoryBool is a checkbox, or a momentary button when not a toggle.
	CategoryBool
	// CategoryTextInput is a free value edited as text.
	CategoryTextInput
)

func (c Category) String() string {
	switch c {
	case CategoryMinMax:
		return "minmax"
	case CategoryBool:
		return "bool"
	case CategoryTextInput:
		return "textinput"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}
