package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// findDecl returns the first declaration whose Name matches, or nil.
func findDecl(decls []Decl, name string) *Decl {
	for i := range decls {
		if decls[i].Name == name {
			return &decls[i]
		}
	}
	return nil
}

func TestFromTag(t *testing.T) {
	tests := []struct {
		tag  string
		want Language
		ok   bool
	}{
		{"go", LangGo, true},
		{"golang", LangGo, true},
		{"py", LangPython, true},
		{"python", LangPython, true},
		{"rs", LangRust, true},
		{"ts", LangTypeScript, true},
		{"tsx", LangTypeScript, true},
		{"cobol", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		lang, ok := FromTag(tt.tag)
		assert.Equal(t, tt.ok, ok, "tag %q", tt.tag)
		assert.Equal(t, tt.want, lang, "tag %q", tt.tag)
	}
}

func TestOutlinerGo(t *testing.T) {
	src := []byte(`package demo

type Wallet struct {
	balance int
}

func (w *Wallet) Deposit(amount int) {
	w.balance += amount
}

func NewWallet() *Wallet {
	return &Wallet{}
}
`)

	o := NewOutliner()
	out, err := o.Outline(context.Background(), src, LangGo)
	require.NoError(t, err)

	wallet := findDecl(out.Decls, "Wallet")
	require.NotNil(t, wallet)
	assert.Equal(t, DeclType, wallet.Kind)

	deposit := findDecl(out.Decls, "Deposit")
	require.NotNil(t, deposit)
	assert.Equal(t, DeclMethod, deposit.Kind)
	assert.Equal(t, 7, deposit.StartLine)
	assert.Equal(t, 9, deposit.EndLine)

	ctor := findDecl(out.Decls, "NewWallet")
	require.NotNil(t, ctor)
	assert.Equal(t, DeclFunction, ctor.Kind)
}

func TestOutlinerPython(t *testing.T) {
	src := []byte(`class Cart:
    def __init__(self):
        self.items = []

    def add(self, item):
        self.items.append(item)


def checkout(cart):
    return sum(cart.items)
`)

	o := NewOutliner()
	out, err := o.Outline(context.Background(), src, LangPython)
	require.NoError(t, err)

	cart := findDecl(out.Decls, "Cart")
	require.NotNil(t, cart)
	assert.Equal(t, DeclClass, cart.Kind)

	add := findDecl(out.Decls, "add")
	require.NotNil(t, add)
	assert.Equal(t, DeclFunction, add.Kind)

	require.NotNil(t, findDecl(out.Decls, "checkout"))
}

func TestOutlinerRust(t *testing.T) {
	src := []byte(`struct Point { x: i32, y: i32 }

enum Shape { Circle, Square }

trait Draw {
    fn draw(&self);
}

fn area(p: Point) -> i32 {
    p.x * p.y
}
`)

	o := NewOutliner()
	out, err := o.Outline(context.Background(), src, LangRust)
	require.NoError(t, err)

	assert.Equal(t, DeclType, findDecl(out.Decls, "Point").Kind)
	assert.Equal(t, DeclEnum, findDecl(out.Decls, "Shape").Kind)
	assert.Equal(t, DeclInterface, findDecl(out.Decls, "Draw").Kind)
	assert.Equal(t, DeclFunction, findDecl(out.Decls, "area").Kind)
}

func TestOutlinerTypeScript(t *testing.T) {
	src := []byte(`interface User {
  name: string;
}

class Session {
  login(user: User): void {}
}

function validate(user: User): boolean {
  return user.name.length > 0;
}
`)

	o := NewOutliner()
	out, err := o.Outline(context.Background(), src, LangTypeScript)
	require.NoError(t, err)

	assert.Equal(t, DeclInterface, findDecl(out.Decls, "User").Kind)
	assert.Equal(t, DeclClass, findDecl(out.Decls, "Session").Kind)
	assert.Equal(t, DeclMethod, findDecl(out.Decls, "login").Kind)
	assert.Equal(t, DeclFunction, findDecl(out.Decls, "validate").Kind)
}

func TestOutlinerUnsupportedLanguage(t *testing.T) {
	o := NewOutliner()
	_, err := o.Outline(context.Background(), []byte("x"), Language("cobol"))
	assert.Error(t, err)
	assert.False(t, o.Supports(Language("cobol")))
	assert.True(t, o.Supports(LangGo))
}

func TestOutlineDeclAt(t *testing.T) {
	out := &Outline{
		Language:  LangGo,
		LineCount: 40,
		Decls: []Decl{
			{Name: "Service", Kind: DeclType, StartLine: 1, EndLine: 40},
			{Name: "Handle", Kind: DeclMethod, StartLine: 10, EndLine: 25},
			{Name: "helper", Kind: DeclFunction, StartLine: 30, EndLine: 35},
		},
	}

	// Smallest enclosing declaration wins.
	d := out.DeclAt(12, 14)
	require.NotNil(t, d)
	assert.Equal(t, "Handle", d.Name)

	d = out.DeclAt(31, 31)
	require.NotNil(t, d)
	assert.Equal(t, "helper", d.Name)

	// Range spanning two inner decls resolves to the outer one.
	d = out.DeclAt(20, 32)
	require.NotNil(t, d)
	assert.Equal(t, "Service", d.Name)

	assert.Nil(t, out.DeclAt(41, 45))
	assert.Nil(t, (*Outline)(nil).DeclAt(1, 2))

	assert.True(t, out.SameDecl(11, 12, 20, 21))
	assert.False(t, out.SameDecl(11, 12, 31, 32))
	assert.False(t, out.SameDecl(41, 42, 43, 44))
}
