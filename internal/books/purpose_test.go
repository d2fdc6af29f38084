package books

import "testing"

func TestPurposeLocationRequirement(t *testing.T) {
	cases := []struct {
		purpose ListPurpose
		want    bool
	}{
		{PurposeSharing, false},
		{PurposePickup, true},
		{PurposeBorrowing, true},
		{PurposeBuying, true},
		{PurposeSearching, false},
		{PurposeMiniLibrary, true},
	}
	for _, tc := range cases {
		if got := tc.purpose.LocationRequired(); got != tc.want {
			t.Errorf("%s.LocationRequired() = %v, want %v", tc.purpose, got, tc.want)
		}
	}
}

func TestCanEdit(t *testing.T) {
	owner := "user-1"
	other := "user-2"

	shared := &List{OwnerID: owner, Purpose: PurposeSharing}
	if !shared.CanEdit(owner) {
		t.Error("owner should edit a sharing list")
	}
	if shared.CanEdit(other) {
		t.Error("non-owner should not edit a sharing list")
	}
	if shared.CanEdit("") {
		t.Error("anonymous should never edit")
	}

	shelf := &List{OwnerID: owner, Purpose: PurposeMiniLibrary}
	if !shelf.CanEdit(other) {
		t.Error("any authenticated user should edit a mini library")
	}
	if shelf.CanEdit("") {
		t.Error("anonymous should not edit a mini library")
	}
}

func TestCanManageIsOwnerOnly(t *testing.T) {
	shelf := &List{OwnerID: "user-1", Purpose: PurposeMiniLibrary}
	if shelf.CanManage("user-2") {
		t.Error("community management must not extend to list identity")
	}
	if !shelf.CanManage("user-1") {
		t.Error("owner should manage the list")
	}
}

func TestMentionUsable(t *testing.T) {
	if (RawMention{Title: "Dune"}).Usable() {
		t.Error("title-only mention should be rejected")
	}
	if !(RawMention{Title: "Dune", Author: "Frank Herbert"}).Usable() {
		t.Error("title+author mention should be accepted")
	}
	if !(RawMention{Title: "Rome", Publisher: "Lonely Planet"}).Usable() {
		t.Error("title+publisher mention should be accepted")
	}
	if (RawMention{Author: "Frank Herbert"}).Usable() {
		t.Error("mention without title should be rejected")
	}
}
