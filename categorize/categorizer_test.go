package categorize

import (
	"context"
	"reflect"
	"testing"

	"github.com/openlanka/adkit/core"
	"github.com/openlanka/adkit/store"
)

func TestCategorizeRegistration(t *testing.T) {
	c := NewCategorizer(nil)

	tests := []struct {
		name      string
		age       int
		job       string
		location  string
		interests []string
		want      []string
	}{
		{
			name:      "tech professional in colombo",
			age:       30,
			job:       "Software Engineer",
			location:  "Colombo",
			interests: []string{"technology"},
			// 行为分：tech_enthusiast 40+35+10=85, electronics_buyer 35+30+10=75,
			// career_focused 30, property_seeker 10（不过线）
			want: []string{
				"early_career", "tech_professional", "urban_resident",
				"tech_enthusiast", "electronics_buyer", "career_focused",
			},
		},
		{
			name:     "student without job or interests",
			age:      20,
			job:      "Student",
			location: "Anuradhapura",
			want: []string{
				"young_adult", "student", "rural_resident",
				"education_seeker", "book_buyer", "past_paper_buyer", "tech_enthusiast",
			},
		},
		{
			name:     "job text hits multiple rules",
			age:      40,
			job:      "IT Manager",
			location: "Kandy",
			// vehicle_buyer 20+30=50 与 tech_enthusiast 40+10=50 同分，
			// 稳定排序保持首次加分顺序
			want: []string{
				"mid_career_family", "tech_professional", "management", "urban_resident",
				"vehicle_buyer", "tech_enthusiast", "electronics_buyer", "family_oriented", "property_investor",
			},
		},
		{
			name:     "senior with open age band",
			age:      70,
			location: "Jaffna",
			want:     []string{"senior", "rural_resident", "health_focused"},
		},
		{
			name:     "zero age skips age bands",
			location: "Colombo",
			want:     []string{"urban_resident"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.CategorizeRegistration(tt.age, tt.job, tt.location, tt.interests)
			if !reflect.DeepEqual(got.Categories, tt.want) {
				t.Errorf("Categories = %v, want %v", got.Categories, tt.want)
			}
			if got.Type != "registration" {
				t.Errorf("Type = %q, want registration", got.Type)
			}
		})
	}
}

func TestCategorizeRegistrationScores(t *testing.T) {
	c := NewCategorizer(nil)

	got := c.CategorizeRegistration(30, "Software Engineer", "Colombo", []string{"technology"})

	wantScores := map[string]int{
		"career_focused":    30,
		"property_seeker":   10,
		"tech_enthusiast":   85,
		"electronics_buyer": 75,
	}
	if !reflect.DeepEqual(got.Scores, wantScores) {
		t.Errorf("Scores = %v, want %v", got.Scores, wantScores)
	}
}

func TestRecategorizeFromProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("delta above threshold appends label", func(t *testing.T) {
		st := store.NewMemoryStore()
		c := NewCategorizer(st)

		st.PutUser(ctx, &core.User{
			ID: "u1",
			Categorization: &core.Categorization{
				Categories: []string{"young_adult"},
				Scores:     map[string]int{"education_seeker": 30},
			},
		})

		// education 主题 4 次命中：education_seeker +20, course_buyer +16
		err := c.RecategorizeFromProfile(ctx, "u1", &core.InterestProfile{
			UserID:         "u1",
			InterestScores: map[core.Topic]int{core.TopicEducation: 4},
		})
		if err != nil {
			t.Fatal(err)
		}

		u, _ := st.GetUser(ctx, "u1")
		want := []string{"young_adult", "education_seeker", "course_buyer"}
		if !reflect.DeepEqual(u.Categorization.Categories, want) {
			t.Errorf("Categories = %v, want %v", u.Categorization.Categories, want)
		}
		if got := u.Categorization.Scores["education_seeker"]; got != 50 {
			t.Errorf("education_seeker score = %d, want 50 (additive merge)", got)
		}
		if u.Categorization.Type != "search_behavior" {
			t.Errorf("Type = %q, want search_behavior", u.Categorization.Type)
		}
	})

	t.Run("delta below threshold only accumulates score", func(t *testing.T) {
		st := store.NewMemoryStore()
		c := NewCategorizer(st)
		st.PutUser(ctx, &core.User{ID: "u1"})

		// 2 次命中：education_seeker delta=10 < 15
		err := c.RecategorizeFromProfile(ctx, "u1", &core.InterestProfile{
			UserID:         "u1",
			InterestScores: map[core.Topic]int{core.TopicEducation: 2},
		})
		if err != nil {
			t.Fatal(err)
		}

		u, _ := st.GetUser(ctx, "u1")
		if u.Categorization.Has("education_seeker") {
			t.Error("education_seeker should not be appended below threshold")
		}
		if got := u.Categorization.Scores["education_seeker"]; got != 10 {
			t.Errorf("education_seeker score = %d, want 10", got)
		}
	})

	t.Run("labels never removed on recategorization", func(t *testing.T) {
		st := store.NewMemoryStore()
		c := NewCategorizer(st)
		st.PutUser(ctx, &core.User{
			ID: "u1",
			Categorization: &core.Categorization{
				Categories: []string{"vehicle_buyer", "urban_resident"},
				Scores:     map[string]int{},
			},
		})

		err := c.RecategorizeFromProfile(ctx, "u1", &core.InterestProfile{
			UserID:         "u1",
			InterestScores: map[core.Topic]int{core.TopicHealth: 10},
		})
		if err != nil {
			t.Fatal(err)
		}

		u, _ := st.GetUser(ctx, "u1")
		for _, label := range []string{"vehicle_buyer", "urban_resident", "health_focused"} {
			if !u.Categorization.Has(label) {
				t.Errorf("label %q missing after recategorization", label)
			}
		}
	})

	t.Run("active frequency grants engagement labels", func(t *testing.T) {
		st := store.NewMemoryStore()
		c := NewCategorizer(st)
		st.PutUser(ctx, &core.User{ID: "u1"})

		err := c.RecategorizeFromProfile(ctx, "u1", &core.InterestProfile{
			UserID:          "u1",
			SearchFrequency: core.FrequencyVeryActive,
		})
		if err != nil {
			t.Fatal(err)
		}

		u, _ := st.GetUser(ctx, "u1")
		if !u.Categorization.Has("power_user") || !u.Categorization.Has("engaged_user") {
			t.Errorf("engagement labels missing, got %v", u.Categorization.Categories)
		}
	})

	t.Run("unknown user is a quiet no-op", func(t *testing.T) {
		st := store.NewMemoryStore()
		c := NewCategorizer(st)

		err := c.RecategorizeFromProfile(ctx, "ghost", &core.InterestProfile{
			UserID:         "ghost",
			InterestScores: map[core.Topic]int{core.TopicEducation: 10},
		})
		if err != nil {
			t.Errorf("expected nil error for unknown user, got %v", err)
		}
	})
}
