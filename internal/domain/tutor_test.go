package domain

import "testing"

func TestAverageRating(t *testing.T) {
	cases := []struct {
		name    string
		reviews []Review
		want    float64
	}{
		{name: "empty", reviews: nil, want: 0},
		{name: "four and two", reviews: []Review{{Rating: 4}, {Rating: 2}}, want: 3.0},
		{name: "single", reviews: []Review{{Rating: 5}}, want: 5},
		{name: "non integer mean", reviews: []Review{{Rating: 5}, {Rating: 4}}, want: 4.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tutor := Tutor{Reviews: tc.reviews}
			if got := tutor.AverageRating(); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			if tutor.ReviewCount() != len(tc.reviews) {
				t.Fatalf("expected count %d, got %d", len(tc.reviews), tutor.ReviewCount())
			}
		})
	}
}

func TestIdentityClone_DoesNotShareSlices(t *testing.T) {
	orig := &Identity{
		ID:       "u1",
		Role:     RoleTutor,
		Subjects: []string{"Math"},
		Children: []Child{{Name: "Kid", Subjects: []string{"Art"}}},
	}
	cp := orig.Clone()
	cp.Subjects[0] = "Physics"
	cp.Children[0].Subjects[0] = "Music"

	if orig.Subjects[0] != "Math" {
		t.Fatalf("clone shares subjects slice")
	}
	if orig.Children[0].Subjects[0] != "Art" {
		t.Fatalf("clone shares child subjects slice")
	}
	if !cp.IsTutor() || cp.IsParent() {
		t.Fatalf("unexpected role helpers on clone")
	}
	var nilIdentity *Identity
	if nilIdentity.Clone() != nil || nilIdentity.IsParent() {
		t.Fatalf("nil identity helpers should be safe")
	}
}
