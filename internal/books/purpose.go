package books

// ListPurpose declares what a list is for. The minilibrary purpose relaxes
// ownership: any authenticated user may edit a community-managed shelf.
type ListPurpose string

const (
	PurposeSharing     ListPurpose = "sharing"
	PurposePickup      ListPurpose = "pickup"
	PurposeBorrowing   ListPurpose = "borrowing"
	PurposeBuying      ListPurpose = "buying"
	PurposeSearching   ListPurpose = "searching"
	PurposeMiniLibrary ListPurpose = "minilibrary"
)

// purposeTraits keys every purpose to its declarative properties, rather
// than scattering conditionals across call sites.
var purposeTraits = map[ListPurpose]struct {
	locationRequired bool
	communityManaged bool
}{
	PurposeSharing:     {locationRequired: false},
	PurposePickup:      {locationRequired: true},
	PurposeBorrowing:   {locationRequired: true},
	PurposeBuying:      {locationRequired: true},
	PurposeSearching:   {locationRequired: false},
	PurposeMiniLibrary: {locationRequired: true, communityManaged: true},
}

// Known reports whether p is one of the defined purposes.
func (p ListPurpose) Known() bool {
	_, ok := purposeTraits[p]
	return ok
}

// LocationRequired reports whether lists of this purpose must carry a
// location.
func (p ListPurpose) LocationRequired() bool {
	return purposeTraits[p].locationRequired
}

// CommunityManaged reports whether any authenticated user may edit the
// list's books, not just the owner.
func (p ListPurpose) CommunityManaged() bool {
	return purposeTraits[p].communityManaged
}

// ShowsExactLocation reports whether viewers see the exact coordinates.
// Only community shelves expose their true position; everything else shows
// the fuzzed public pair.
func (p ListPurpose) ShowsExactLocation() bool {
	return p == PurposeMiniLibrary
}

// CanEdit applies the ownership invariant: the owner always may edit, and
// community-managed lists accept any authenticated actor.
func (l *List) CanEdit(userID string) bool {
	if userID == "" {
		return false
	}
	if l.OwnerID == userID {
		return true
	}
	return l.Purpose.CommunityManaged()
}

// CanManage reports whether the actor may change list identity (name,
// purpose, location). Community management does not extend this far; only
// the owner manages a mini library's identity.
func (l *List) CanManage(userID string) bool {
	return userID != "" && l.OwnerID == userID
}
