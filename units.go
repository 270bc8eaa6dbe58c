/*
 * units.go, part of mdanalysis
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

import "strings"

// AmberChargeFactor converts elementary charges to Amber internal charge
// units: q_amber = q_e * AmberChargeFactor. Topology charges on disk are
// divided by it.
const AmberChargeFactor = 18.2223

//canonical units in this library: angstrom, picosecond, elementary charge.

//conversion factors to angstrom, keyed by the unit names the AMBER
//NetCDF convention and its writers are known to use.
var lengthFactor = map[string]float64{
	"angstrom":   1.0,
	"angstroms":  1.0,
	"a":          1.0,
	"nanometer":  10.0,
	"nanometers": 10.0,
	"nm":         10.0,
	"picometer":  0.01,
	"picometers": 0.01,
	"pm":         0.01,
	"bohr":       0.52917721092,
}

//conversion factors to picosecond.
var timeFactor = map[string]float64{
	"picosecond":   1.0,
	"picoseconds":  1.0,
	"ps":           1.0,
	"femtosecond":  1e-3,
	"femtoseconds": 1e-3,
	"fs":           1e-3,
	"nanosecond":   1e3,
	"nanoseconds":  1e3,
	"ns":           1e3,
}

// LengthFactor returns the factor converting the named length unit to
// angstrom. The lookup is case-insensitive; ok is false for unknown
// units.
func LengthFactor(unit string) (f float64, ok bool) {
	f, ok = lengthFactor[strings.ToLower(strings.TrimSpace(unit))]
	return f, ok
}

// TimeFactor returns the factor converting the named time unit to
// picosecond. The lookup is case-insensitive; ok is false for unknown
// units.
func TimeFactor(unit string) (f float64, ok bool) {
	f, ok = timeFactor[strings.ToLower(strings.TrimSpace(unit))]
	return f, ok
}
