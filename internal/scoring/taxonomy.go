package scoring

// Section identifies one of the nine behavioral sections of the
// 86-item caregiver questionnaire.
type Section string

const (
	SectionAuditory        Section = "auditoryProcessing"
	SectionVisual          Section = "visualProcessing"
	SectionTactile         Section = "tactileProcessing"
	SectionMovement        Section = "movementProcessing"
	SectionBodyPosition    Section = "bodyPositionProcessing"
	SectionOralSensory     Section = "oralSensoryProcessing"
	SectionConduct         Section = "conductProcessing"
	SectionSocialEmotional Section = "socialEmotionalResponses"
	SectionAttentional     Section = "attentionalResponses"
)

// Quadrant identifies one of Dunn's four sensory processing quadrants.
type Quadrant string

const (
	QuadrantSeeking      Quadrant = "seeking"
	QuadrantAvoiding     Quadrant = "avoiding"
	QuadrantSensitivity  Quadrant = "sensitivity"
	QuadrantRegistration Quadrant = "registration"
)

const (
	// MinItemID and MaxItemID bound the valid questionnaire item ids.
	MinItemID = 1
	MaxItemID = 86
)

// Items 15 and 86 appear on the form and count toward quadrant and
// completeness tallies, but are excluded from their section's score.
// Item 86's quadrant membership is disputed between form revisions;
// it only maps to registration when WithItem86Quadrant is enabled.
const (
	excludedItemVisual      = 15
	excludedItemAttentional = 86
)

type itemInfo struct {
	section  Section
	quadrant Quadrant // empty: item contributes to no quadrant
}

// itemTable is the single source of truth for item membership.
// Index is the item id; index 0 is unused.
var itemTable = [MaxItemID + 1]itemInfo{
	// auditoryProcessing (1-8)
	1: {SectionAuditory, QuadrantSensitivity},
	2: {SectionAuditory, QuadrantAvoiding},
	3: {SectionAuditory, QuadrantSensitivity},
	4: {SectionAuditory, QuadrantAvoiding},
	5: {SectionAuditory, QuadrantRegistration},
	6: {SectionAuditory, QuadrantSensitivity},
	7: {SectionAuditory, QuadrantAvoiding},
	8: {SectionAuditory, QuadrantRegistration},

	// visualProcessing (9-15)
	9:  {SectionVisual, QuadrantSensitivity},
	10: {SectionVisual, QuadrantAvoiding},
	11: {SectionVisual, QuadrantRegistration},
	12: {SectionVisual, QuadrantSensitivity},
	13: {SectionVisual, QuadrantAvoiding},
	14: {SectionVisual, QuadrantRegistration},
	15: {SectionVisual, QuadrantSeeking},

	// tactileProcessing (16-26)
	16: {SectionTactile, QuadrantSensitivity},
	17: {SectionTactile, QuadrantSensitivity},
	18: {SectionTactile, QuadrantAvoiding},
	19: {SectionTactile, QuadrantAvoiding},
	20: {SectionTactile, QuadrantSensitivity},
	21: {SectionTactile, QuadrantRegistration},
	22: {SectionTactile, QuadrantRegistration},
	23: {SectionTactile, QuadrantSeeking},
	24: {SectionTactile, QuadrantSeeking},
	25: {SectionTactile, QuadrantSensitivity},
	26: {SectionTactile, QuadrantRegistration},

	// movementProcessing (27-34)
	27: {SectionMovement, QuadrantSeeking},
	28: {SectionMovement, QuadrantSeeking},
	29: {SectionMovement, QuadrantSeeking},
	30: {SectionMovement, QuadrantSensitivity},
	31: {SectionMovement, QuadrantAvoiding},
	32: {SectionMovement, QuadrantSeeking},
	33: {SectionMovement, QuadrantSensitivity},
	34: {SectionMovement, QuadrantSeeking},

	// bodyPositionProcessing (35-42)
	35: {SectionBodyPosition, QuadrantRegistration},
	36: {SectionBodyPosition, QuadrantRegistration},
	37: {SectionBodyPosition, QuadrantSeeking},
	38: {SectionBodyPosition, QuadrantSeeking},
	39: {SectionBodyPosition, QuadrantRegistration},
	40: {SectionBodyPosition, QuadrantSeeking},
	41: {SectionBodyPosition, QuadrantRegistration},
	42: {SectionBodyPosition, QuadrantRegistration},

	// oralSensoryProcessing (43-52)
	43: {SectionOralSensory, QuadrantSensitivity},
	44: {SectionOralSensory, QuadrantAvoiding},
	45: {SectionOralSensory, QuadrantSensitivity},
	46: {SectionOralSensory, QuadrantAvoiding},
	47: {SectionOralSensory, QuadrantSeeking},
	48: {SectionOralSensory, QuadrantSeeking},
	49: {SectionOralSensory, QuadrantSeeking},
	50: {SectionOralSensory, QuadrantAvoiding},
	51: {SectionOralSensory, QuadrantSensitivity},
	52: {SectionOralSensory, QuadrantSeeking},

	// conductProcessing (53-61)
	53: {SectionConduct, QuadrantAvoiding},
	54: {SectionConduct, QuadrantAvoiding},
	55: {SectionConduct, QuadrantSensitivity},
	56: {SectionConduct, QuadrantAvoiding},
	57: {SectionConduct, QuadrantRegistration},
	58: {SectionConduct, QuadrantSensitivity},
	59: {SectionConduct, QuadrantRegistration},
	60: {SectionConduct, QuadrantAvoiding},
	61: {SectionConduct, QuadrantRegistration},

	// socialEmotionalResponses (62-75)
	62: {SectionSocialEmotional, QuadrantAvoiding},
	63: {SectionSocialEmotional, QuadrantAvoiding},
	64: {SectionSocialEmotional, QuadrantSensitivity},
	65: {SectionSocialEmotional, QuadrantAvoiding},
	66: {SectionSocialEmotional, QuadrantRegistration},
	67: {SectionSocialEmotional, QuadrantSeeking},
	68: {SectionSocialEmotional, QuadrantAvoiding},
	69: {SectionSocialEmotional, QuadrantSensitivity},
	70: {SectionSocialEmotional, QuadrantAvoiding},
	71: {SectionSocialEmotional, QuadrantRegistration},
	72: {SectionSocialEmotional, QuadrantAvoiding},
	73: {SectionSocialEmotional, QuadrantSensitivity},
	74: {SectionSocialEmotional, QuadrantAvoiding},
	75: {SectionSocialEmotional, QuadrantAvoiding},

	// attentionalResponses (76-86)
	76: {SectionAttentional, QuadrantSensitivity},
	77: {SectionAttentional, QuadrantRegistration},
	78: {SectionAttentional, QuadrantSensitivity},
	79: {SectionAttentional, QuadrantRegistration},
	80: {SectionAttentional, QuadrantSeeking},
	81: {SectionAttentional, QuadrantRegistration},
	82: {SectionAttentional, QuadrantSensitivity},
	83: {SectionAttentional, QuadrantRegistration},
	84: {SectionAttentional, ""},
	85: {SectionAttentional, ""},
	86: {SectionAttentional, ""},
}

// sectionOrder fixes the canonical section ordering used in results,
// reports, and persisted score columns.
var sectionOrder = []Section{
	SectionAuditory,
	SectionVisual,
	SectionTactile,
	SectionMovement,
	SectionBodyPosition,
	SectionOralSensory,
	SectionConduct,
	SectionSocialEmotional,
	SectionAttentional,
}

var quadrantOrder = []Quadrant{
	QuadrantSeeking,
	QuadrantAvoiding,
	QuadrantSensitivity,
	QuadrantRegistration,
}

// Sections returns the nine sections in canonical order.
func Sections() []Section {
	out := make([]Section, len(sectionOrder))
	copy(out, sectionOrder)
	return out
}

// Quadrants returns the four quadrants in canonical order.
func Quadrants() []Quadrant {
	out := make([]Quadrant, len(quadrantOrder))
	copy(out, quadrantOrder)
	return out
}

// ValidItemID reports whether id falls in the questionnaire's item range.
func ValidItemID(id int) bool {
	return id >= MinItemID && id <= MaxItemID
}

// ParseSection resolves a stored section key to its Section.
func ParseSection(key string) (Section, bool) {
	for _, s := range sectionOrder {
		if string(s) == key {
			return s, true
		}
	}
	return "", false
}

// ParseQuadrant resolves a stored quadrant key to its Quadrant.
// "registrationIncreased" survives in rows written by early exports
// and reads as registration.
func ParseQuadrant(key string) (Quadrant, bool) {
	if key == "registrationIncreased" {
		return QuadrantRegistration, true
	}
	for _, q := range quadrantOrder {
		if string(q) == key {
			return q, true
		}
	}
	return "", false
}

// SectionOf returns the section an item belongs to.
func SectionOf(itemID int) (Section, bool) {
	if !ValidItemID(itemID) {
		return "", false
	}
	s := itemTable[itemID].section
	return s, s != ""
}

// QuadrantOf returns the quadrant an item contributes to, if any.
// Item 86 reports no quadrant here; see WithItem86Quadrant.
func QuadrantOf(itemID int) (Quadrant, bool) {
	if !ValidItemID(itemID) {
		return "", false
	}
	q := itemTable[itemID].quadrant
	return q, q != ""
}

// ExcludedFromSectionScore reports whether an item is present on the
// form but omitted from its section's score.
func ExcludedFromSectionScore(itemID int) bool {
	return itemID == excludedItemVisual || itemID == excludedItemAttentional
}

// SectionItemCount returns the number of items contributing to a
// section's score (exclusions removed).
func SectionItemCount(s Section) int {
	n := 0
	for id := MinItemID; id <= MaxItemID; id++ {
		if itemTable[id].section == s && !ExcludedFromSectionScore(id) {
			n++
		}
	}
	return n
}

// SectionRawItemCount returns the number of items printed under a
// section on the form, including score-excluded items.
func SectionRawItemCount(s Section) int {
	n := 0
	for id := MinItemID; id <= MaxItemID; id++ {
		if itemTable[id].section == s {
			n++
		}
	}
	return n
}
