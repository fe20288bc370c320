package pricing

import "sort"

// Service is a rentable verification target. Codes follow the
// provider's short-code vocabulary.
type Service struct {
	Code  string
	Name  string
	Price int64
}

// The catalog is static: prices are listed, not negotiated, and the
// full listed price is what a cancellation refunds.
var services = map[string]Service{
	"go":  {Code: "go", Name: "Google, Gmail, Youtube", Price: 25},
	"tg":  {Code: "tg", Name: "Telegram", Price: 50},
	"wa":  {Code: "wa", Name: "WhatsApp", Price: 100},
	"ig":  {Code: "ig", Name: "Instagram", Price: 12},
	"jx":  {Code: "jx", Name: "Swiggy", Price: 22},
	"am":  {Code: "am", Name: "Amazon", Price: 20},
	"wmh": {Code: "wmh", Name: "Winmatch", Price: 21},
	"sn":  {Code: "sn", Name: "OLX", Price: 24},
	"zpt": {Code: "zpt", Name: "Zepto", Price: 25},
	"ve":  {Code: "ve", Name: "Dream11", Price: 26},
}

// Lookup returns the service for a code, or false when the code is not
// a supported service.
func Lookup(code string) (Service, bool) {
	s, ok := services[code]
	return s, ok
}

// PriceFor returns the listed price for a service code.
func PriceFor(code string) (int64, bool) {
	s, ok := services[code]
	if !ok {
		return 0, false
	}
	return s.Price, true
}

// All returns the catalog sorted by code, for listing endpoints.
func All() []Service {
	out := make([]Service, 0, len(services))
	for _, s := range services {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
