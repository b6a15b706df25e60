package application

// CompanionField names an editable field of a companion entry.
type CompanionField string

const (
	CompanionFieldName                CompanionField = "name"
	CompanionFieldDietaryRestrictions CompanionField = "dietary_restrictions"
	CompanionFieldFavoriteMusic       CompanionField = "favorite_music"
)

// CompanionInput is one companion entry as typed into the form, before
// normalization. Blank optional fields stay "" here and become nil markers at
// submission time.
type CompanionInput struct {
	Name                string
	DietaryRestrictions string
	FavoriteMusic       string
}

// RSVPDraft models the client side form state of a submission before it is
// posted: the guest's own fields plus an ordered, mutable list of companion
// entries. The server only ever receives completed submissions, so no handler
// constructs one; the type captures the editing rules any client driving the
// flow has to follow, and converts the result into SubmitRSVPParams.
type RSVPDraft struct {
	Name                string
	Email               string
	Phone               string
	DietaryRestrictions string
	FavoriteMusic       string
	BusService          bool
	BusRoute            string
	Companions          []CompanionInput
}

// AddCompanion appends one blank companion entry to the end of the list.
func (d *RSVPDraft) AddCompanion() {
	d.Companions = append(d.Companions, CompanionInput{})
}

// RemoveCompanion deletes the entry at position i, shifting subsequent
// entries left. It reports whether an entry was removed; other entries keep
// their values unchanged.
func (d *RSVPDraft) RemoveCompanion(i int) bool {
	if i < 0 || i >= len(d.Companions) {
		return false
	}
	d.Companions = append(d.Companions[:i], d.Companions[i+1:]...)
	return true
}

// SetCompanionField replaces exactly one field of the entry at position i,
// leaving every other entry and field untouched.
func (d *RSVPDraft) SetCompanionField(i int, field CompanionField, value string) bool {
	if i < 0 || i >= len(d.Companions) {
		return false
	}
	switch field {
	case CompanionFieldName:
		d.Companions[i].Name = value
	case CompanionFieldDietaryRestrictions:
		d.Companions[i].DietaryRestrictions = value
	case CompanionFieldFavoriteMusic:
		d.Companions[i].FavoriteMusic = value
	default:
		return false
	}
	return true
}

// SubmitParams converts the draft into submission parameters.
func (d *RSVPDraft) SubmitParams() SubmitRSVPParams {
	companions := make([]CompanionInput, len(d.Companions))
	copy(companions, d.Companions)

	return SubmitRSVPParams{
		Name:                d.Name,
		Email:               d.Email,
		Phone:               d.Phone,
		DietaryRestrictions: d.DietaryRestrictions,
		FavoriteMusic:       d.FavoriteMusic,
		BusService:          d.BusService,
		BusRoute:            d.BusRoute,
		Companions:          companions,
	}
}
