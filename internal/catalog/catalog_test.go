package catalog

import "testing"

func TestPlans(t *testing.T) {
	plans := Plans()
	if len(plans) != 3 {
		t.Fatalf("got %d plans, want 3", len(plans))
	}
	popular := 0
	for _, p := range plans {
		if p.Popular {
			popular++
			if p.Name != "Professional" {
				t.Errorf("popular plan = %q, want Professional", p.Name)
			}
		}
		if p.Period != "/mês" {
			t.Errorf("%s period = %q", p.Name, p.Period)
		}
	}
	if popular != 1 {
		t.Errorf("got %d popular plans, want 1", popular)
	}
}

func TestPlansReturnsCopy(t *testing.T) {
	a := Plans()
	a[0].Name = "changed"
	a[0].Features[0] = "changed"

	b := Plans()
	if b[0].Name != "Starter" || b[0].Features[0] != "1 número WhatsApp" {
		t.Errorf("catalog mutated through returned slice: %+v", b[0])
	}
}

func TestFeaturesReturnsCopy(t *testing.T) {
	a := Features()
	if len(a) != 6 {
		t.Fatalf("got %d features, want 6", len(a))
	}
	a[0].Title = "changed"
	if Features()[0].Title != "WhatsApp Automation" {
		t.Error("catalog mutated through returned slice")
	}
}

func TestDashboardStats(t *testing.T) {
	stats := DashboardStats()
	if len(stats) != 4 {
		t.Fatalf("got %d stats, want 4", len(stats))
	}
	for _, s := range stats {
		if s.Value != "0" && s.Value != "0%" {
			t.Errorf("%s = %q, want zero", s.Title, s.Value)
		}
	}
}
