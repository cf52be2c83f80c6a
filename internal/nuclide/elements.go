package nuclide

import "strings"

// MaxZ is the highest proton number with a known element symbol.
const MaxZ = 118

// symbols maps proton number to element symbol. Index 0 is unused.
var symbols = [MaxZ + 1]string{
	"",
	"H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd",
	"In", "Sn", "Sb", "Te", "I", "Xe",
	"Cs", "Ba",
	"La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb", "Lu",
	"Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg",
	"Tl", "Pb", "Bi", "Po", "At", "Rn",
	"Fr", "Ra",
	"Ac", "Th", "Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm", "Md", "No", "Lr",
	"Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds", "Rg", "Cn",
	"Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

// symbolToZ maps lowercase element symbols to proton numbers.
var symbolToZ = func() map[string]int {
	m := make(map[string]int, MaxZ)
	for z := 1; z <= MaxZ; z++ {
		m[strings.ToLower(symbols[z])] = z
	}
	return m
}()

// Symbol returns the element symbol for a proton number, or "" if unknown.
func Symbol(z int) string {
	if z < 1 || z > MaxZ {
		return ""
	}
	return symbols[z]
}

// ZForSymbol returns the proton number for an element symbol (case-insensitive).
// The second return value reports whether the symbol is known.
func ZForSymbol(symbol string) (int, bool) {
	z, ok := symbolToZ[strings.ToLower(strings.TrimSpace(symbol))]
	return z, ok
}
