package validators

import (
	"errors"
	"net"
	"testing"

	"github.com/go-playground/validator/v10"
)

type line struct {
	ItemType string `validate:"item_type"`
	Method   string `validate:"payment_method"`
}

func TestCustomRules(t *testing.T) {
	v := validator.New()
	if err := RegisterOn(v); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		in line
		ok bool
	}{
		{line{ItemType: "service", Method: "cash"}, true},
		{line{ItemType: "Product", Method: ""}, true},
		{line{ItemType: "gift", Method: "cash"}, false},
		{line{ItemType: "service", Method: "paypal"}, false},
	}
	for _, tc := range cases {
		err := v.Struct(tc.in)
		if (err == nil) != tc.ok {
			t.Errorf("%+v: err = %v", tc.in, err)
		}
	}

	err := v.Struct(line{ItemType: "x", Method: "cash"})
	if got := Message(err); got != "ItemType must be service or product" {
		t.Fatalf("message = %q", got)
	}
}

func TestEmailDomain(t *testing.T) {
	lookupMX = func(domain string) ([]*net.MX, error) {
		if domain == "barberia.pe" {
			return []*net.MX{{Host: "mx.barberia.pe"}}, nil
		}
		return nil, errors.New("no such host")
	}
	lookupIP = func(string) ([]net.IP, error) { return nil, errors.New("no such host") }
	t.Cleanup(func() { lookupMX, lookupIP = net.LookupMX, net.LookupIP })

	if !IsEmailDomainValid("ana@barberia.pe") {
		t.Fatal("expected valid domain")
	}
	for _, bad := range []string{"ana@nowhere.invalid", "ana@", "not-an-email"} {
		if IsEmailDomainValid(bad) {
			t.Fatalf("%q should be rejected", bad)
		}
	}
}
