/*
 * elements.go, part of mdanalysis
 *
 * Copyright 2024 David E. Cruz <davidercruz{at}gmailDOTcom>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package mdanalysis

//A map from atomic number to element symbol. Amber topologies carry
//atomic numbers in the ATOMIC_NUMBER section; extra points and lone
//pairs use numbers < 1, which have no symbol.
var numberSymbol = map[int]string{
	1: "H", 2: "He",
	3: "Li", 4: "Be", 5: "B", 6: "C", 7: "N", 8: "O", 9: "F", 10: "Ne",
	11: "Na", 12: "Mg", 13: "Al", 14: "Si", 15: "P", 16: "S", 17: "Cl", 18: "Ar",
	19: "K", 20: "Ca", 21: "Sc", 22: "Ti", 23: "V", 24: "Cr", 25: "Mn",
	26: "Fe", 27: "Co", 28: "Ni", 29: "Cu", 30: "Zn", 31: "Ga", 32: "Ge",
	33: "As", 34: "Se", 35: "Br", 36: "Kr",
	37: "Rb", 38: "Sr", 42: "Mo", 44: "Ru", 45: "Rh", 46: "Pd", 47: "Ag",
	48: "Cd", 50: "Sn", 53: "I", 54: "Xe",
	55: "Cs", 56: "Ba", 74: "W", 78: "Pt", 79: "Au", 80: "Hg", 82: "Pb",
}

//A map for assigning mass to elements.
//Note that just common "bio-elements" are present
var symbolMass = map[string]float64{
	"H":  1.0,
	"C":  12.01,
	"O":  16.00,
	"N":  14.01,
	"P":  30.97,
	"S":  32.06,
	"Se": 78.96,
	"K":  39.1,
	"Ca": 40.08,
	"Mg": 24.30,
	"Cl": 35.45,
	"Na": 22.99,
	"Cu": 63.55,
	"Zn": 65.38,
	"Co": 58.93,
	"Fe": 55.84,
	"Mn": 54.94,
	"Cr": 51.996,
	"Si": 28.08,
	"Be": 9.012,
	"F":  18.998,
	"Br": 79.904,
	"I":  126.90,
}

// ElementSymbol returns the symbol for an atomic number, or the empty
// string for numbers without one (unknown, or Amber extra points).
func ElementSymbol(z int) string {
	return numberSymbol[z]
}

// SymbolMass returns an approximate atomic mass for a symbol, or 0 if
// the element is not in the table.
func SymbolMass(symbol string) float64 {
	return symbolMass[symbol]
}
