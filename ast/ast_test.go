package ast

import "testing"

func TestIExpEmpty(t *testing.T) {
	cases := []struct {
		exp   IExp
		empty bool
	}{
		{IExp{}, true},
		{IExp{VarSym: "v"}, false},
		{IExp{Val: IExpVal{Kind: IntVal, Int: 1}}, false},
		{IExp{VarSym: "v", Val: IExpVal{Kind: MacroVal, Macro: "foo"}}, false},
	}
	for _, c := range cases {
		if got := c.exp.Empty(); got != c.empty {
			t.Errorf("IExp{%+v}.Empty() = %v, want %v", c.exp, got, c.empty)
		}
	}
}

func TestIExpString(t *testing.T) {
	cases := []struct {
		exp  IExp
		want string
	}{
		{IExp{}, ""},
		{IExp{VarSym: "v", Val: IExpVal{Kind: IntVal, Int: 1}}, "v1"},
		{IExp{Val: IExpVal{Kind: MacroVal, Macro: "foo"}}, "$foo$"},
	}
	for _, c := range cases {
		if got := c.exp.String(); got != c.want {
			t.Errorf("IExp{%+v}.String() = %q, want %q", c.exp, got, c.want)
		}
	}
}

func TestConditionChainString(t *testing.T) {
	cond := &Condition{
		CType: '&',
		Cond:  CondTerm{Kind: TermFlag, Flag: 1001},
		Rhs: &Condition{
			CType: '/',
			Cond: CondTerm{Kind: TermComparison, Comparison: Comparison{
				Lhs: IExp{VarSym: "v", Val: IExpVal{Kind: IntVal, Int: 1}},
			}},
		},
	}
	want := "&condflag 1001/v1  "
	if got := cond.String(); got != want {
		t.Errorf("Condition.String() = %q, want %q", got, want)
	}
}

func TestNilConditionString(t *testing.T) {
	var c *Condition
	if got := c.String(); got != "" {
		t.Errorf("nil Condition.String() = %q, want empty", got)
	}
}

func TestBodyString(t *testing.T) {
	body := Body{
		{Kind: BodyChar, Char: 'S'},
		{Kind: BodyString, String: "hello\nworld"},
		{Kind: BodyMacro, Macro: "foo"},
	}
	want := "S^hello\nworld^$foo$"
	if got := body.String(); got != want {
		t.Errorf("Body.String() = %q, want %q", got, want)
	}
}
