package pricing

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		code      string
		wantOk    bool
		wantPrice int64
	}{
		{code: "go", wantOk: true, wantPrice: 25},
		{code: "tg", wantOk: true, wantPrice: 50},
		{code: "wa", wantOk: true, wantPrice: 100},
		{code: "ig", wantOk: true, wantPrice: 12},
		{code: "jx", wantOk: true, wantPrice: 22},
		{code: "am", wantOk: true, wantPrice: 20},
		{code: "wmh", wantOk: true, wantPrice: 21},
		{code: "sn", wantOk: true, wantPrice: 24},
		{code: "zpt", wantOk: true, wantPrice: 25},
		{code: "ve", wantOk: true, wantPrice: 26},
		{code: "xx", wantOk: false},
		{code: "", wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			svc, ok := Lookup(tt.code)
			if ok != tt.wantOk {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.code, ok, tt.wantOk)
			}
			if ok && svc.Price != tt.wantPrice {
				t.Errorf("Lookup(%q) price = %d, want %d", tt.code, svc.Price, tt.wantPrice)
			}
		})
	}
}

func TestAllSortedAndComplete(t *testing.T) {
	all := All()
	if len(all) != 10 {
		t.Fatalf("All() returned %d services, want 10", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Code >= all[i].Code {
			t.Errorf("All() not sorted: %q before %q", all[i-1].Code, all[i].Code)
		}
	}
	for _, svc := range all {
		if svc.Name == "" {
			t.Errorf("service %q has no display name", svc.Code)
		}
		if svc.Price <= 0 {
			t.Errorf("service %q has non-positive price %d", svc.Code, svc.Price)
		}
	}
}
