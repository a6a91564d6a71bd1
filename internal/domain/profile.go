package domain

import (
	"slices"
	"time"
)

// TopFiveLimit is the maximum number of fragrances in a profile's top five.
const TopFiveLimit = 5

// Profile is the per-user aggregate of collection state. Every mutating
// method re-establishes the profile invariants before returning:
//
//  1. SignatureScent, if set, is in Collection.
//  2. TopFive is a subset of Collection, unique, at most TopFiveLimit long.
//  3. Collection and Wishlist are disjoint.
//  4. Removing from Collection cascades to TopFive and SignatureScent.
//
// Mutating methods return whether they changed anything, so callers can
// distinguish an applied mutation from a soft-guard no-op.
type Profile struct {
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	DisplayName    string    `json:"display_name,omitempty"`
	AvatarURL      string    `json:"avatar_url,omitempty"`
	SignatureScent string    `json:"signature_scent,omitempty"`
	TopFive        []string  `json:"top_five"`
	Collection     []string  `json:"collection"`
	Wishlist       []string  `json:"wishlist"`
	PassedOn       []string  `json:"passed_on"`
}

// NewProfile creates an empty profile for a user.
func NewProfile(id, email, displayName string) *Profile {
	now := time.Now()
	return &Profile{
		ID:          id,
		Email:       email,
		DisplayName: displayName,
		TopFive:     []string{},
		Collection:  []string{},
		Wishlist:    []string{},
		PassedOn:    []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (p *Profile) touch() {
	p.UpdatedAt = time.Now()
}

// SetDisplayName updates the profile's display name.
func (p *Profile) SetDisplayName(displayName string) bool {
	if p.DisplayName == displayName {
		return false
	}
	p.DisplayName = displayName
	p.touch()
	return true
}

// AddToCollection appends a fragrance to the collection, removing it from
// the wishlist if present. No-op if already owned.
func (p *Profile) AddToCollection(fragranceID string) bool {
	if slices.Contains(p.Collection, fragranceID) {
		return false
	}
	p.Collection = append(p.Collection, fragranceID)
	p.Wishlist = removeID(p.Wishlist, fragranceID)
	p.touch()
	return true
}

// RemoveFromCollection removes a fragrance from the collection, cascading
// to the top five and clearing the signature scent if it matched.
func (p *Profile) RemoveFromCollection(fragranceID string) bool {
	if !slices.Contains(p.Collection, fragranceID) {
		return false
	}
	p.Collection = removeID(p.Collection, fragranceID)
	p.TopFive = removeID(p.TopFive, fragranceID)
	if p.SignatureScent == fragranceID {
		p.SignatureScent = ""
	}
	p.touch()
	return true
}

// AddToWishlist appends a fragrance to the wishlist.
// No-op if already owned or already wishlisted.
func (p *Profile) AddToWishlist(fragranceID string) bool {
	if slices.Contains(p.Collection, fragranceID) {
		return false
	}
	if slices.Contains(p.Wishlist, fragranceID) {
		return false
	}
	p.Wishlist = append(p.Wishlist, fragranceID)
	p.touch()
	return true
}

// RemoveFromWishlist removes a fragrance from the wishlist.
func (p *Profile) RemoveFromWishlist(fragranceID string) bool {
	if !slices.Contains(p.Wishlist, fragranceID) {
		return false
	}
	p.Wishlist = removeID(p.Wishlist, fragranceID)
	p.touch()
	return true
}

// PassOn records a fragrance the user skipped during discovery. Idempotent.
func (p *Profile) PassOn(fragranceID string) bool {
	if slices.Contains(p.PassedOn, fragranceID) {
		return false
	}
	p.PassedOn = append(p.PassedOn, fragranceID)
	p.touch()
	return true
}

// SetSignature designates an owned fragrance as the signature scent.
// No-op if the fragrance is not in the collection.
func (p *Profile) SetSignature(fragranceID string) bool {
	if !slices.Contains(p.Collection, fragranceID) {
		return false
	}
	if p.SignatureScent == fragranceID {
		return false
	}
	p.SignatureScent = fragranceID
	p.touch()
	return true
}

// ClearSignature unsets the signature scent.
func (p *Profile) ClearSignature() bool {
	if p.SignatureScent == "" {
		return false
	}
	p.SignatureScent = ""
	p.touch()
	return true
}

// AddToTopFive appends an owned fragrance to the top five.
// No-op if not owned, already present, or the list is full.
func (p *Profile) AddToTopFive(fragranceID string) bool {
	if !slices.Contains(p.Collection, fragranceID) {
		return false
	}
	if len(p.TopFive) >= TopFiveLimit {
		return false
	}
	if slices.Contains(p.TopFive, fragranceID) {
		return false
	}
	p.TopFive = append(p.TopFive, fragranceID)
	p.touch()
	return true
}

// RemoveFromTopFive removes a fragrance from the top five.
func (p *Profile) RemoveFromTopFive(fragranceID string) bool {
	if !slices.Contains(p.TopFive, fragranceID) {
		return false
	}
	p.TopFive = removeID(p.TopFive, fragranceID)
	p.touch()
	return true
}

// ReorderTopFive replaces the top five with the given ordering.
// IDs not in the collection and duplicates are dropped, and the result is
// truncated to TopFiveLimit. This is a full replace, not a merge.
func (p *Profile) ReorderTopFive(fragranceIDs []string) bool {
	next := make([]string, 0, TopFiveLimit)
	for _, id := range fragranceIDs {
		if len(next) >= TopFiveLimit {
			break
		}
		if !slices.Contains(p.Collection, id) {
			continue
		}
		if slices.Contains(next, id) {
			continue
		}
		next = append(next, id)
	}

	if slices.Equal(p.TopFive, next) {
		return false
	}
	p.TopFive = next
	p.touch()
	return true
}

// ClearCollection empties the collection with the same cascade rules as
// single removal: the top five is emptied and the signature scent cleared.
func (p *Profile) ClearCollection() bool {
	if len(p.Collection) == 0 && len(p.TopFive) == 0 && p.SignatureScent == "" {
		return false
	}
	p.Collection = []string{}
	p.TopFive = []string{}
	p.SignatureScent = ""
	p.touch()
	return true
}

// ClearWishlist empties the wishlist.
func (p *Profile) ClearWishlist() bool {
	if len(p.Wishlist) == 0 {
		return false
	}
	p.Wishlist = []string{}
	p.touch()
	return true
}

// ClearPassedOn forgets all passed-on fragrances, making them eligible
// for discovery again.
func (p *Profile) ClearPassedOn() bool {
	if len(p.PassedOn) == 0 {
		return false
	}
	p.PassedOn = []string{}
	p.touch()
	return true
}

// Owns reports whether a fragrance is in the collection.
func (p *Profile) Owns(fragranceID string) bool {
	return slices.Contains(p.Collection, fragranceID)
}

// Wants reports whether a fragrance is in the wishlist.
func (p *Profile) Wants(fragranceID string) bool {
	return slices.Contains(p.Wishlist, fragranceID)
}

// IsSignature reports whether a fragrance is the signature scent.
func (p *Profile) IsSignature(fragranceID string) bool {
	return p.SignatureScent != "" && p.SignatureScent == fragranceID
}

// InTopFive reports whether a fragrance is in the top five.
func (p *Profile) InTopFive(fragranceID string) bool {
	return slices.Contains(p.TopFive, fragranceID)
}

// HasSeen reports whether the user has already encountered a fragrance:
// owned, wishlisted, or passed on.
func (p *Profile) HasSeen(fragranceID string) bool {
	return slices.Contains(p.Collection, fragranceID) ||
		slices.Contains(p.Wishlist, fragranceID) ||
		slices.Contains(p.PassedOn, fragranceID)
}

// SeenIDs returns the union of collection, wishlist, and passed-on IDs.
// Used to exclude already-triaged fragrances from the discovery queue.
func (p *Profile) SeenIDs() map[string]bool {
	seen := make(map[string]bool, len(p.Collection)+len(p.Wishlist)+len(p.PassedOn))
	for _, id := range p.Collection {
		seen[id] = true
	}
	for _, id := range p.Wishlist {
		seen[id] = true
	}
	for _, id := range p.PassedOn {
		seen[id] = true
	}
	return seen
}

func removeID(ids []string, fragranceID string) []string {
	for i, id := range ids {
		if id == fragranceID {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
