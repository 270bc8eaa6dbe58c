/*
 * frame.go, part of mdanalysis
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

import "gonum.org/v1/gonum/mat"

// UnitCell describes a periodic box with three lengths, in angstrom,
// and three angles, in degrees. Whether the cell is orthogonal or
// triclinic is for the consumer to decide; only the six scalars are
// kept here.
type UnitCell struct {
	Lengths [3]float64
	Angles  [3]float64
}

// Frame is one trajectory snapshot. Coords is an Nx3 matrix of positions
// in angstrom. Vel, Cell and Time are optional; whether they are present
// is fixed per trajectory, not per frame.
type Frame struct {
	Coords  *mat.Dense
	Vel     *mat.Dense //nil when the trajectory carries no velocities
	Cell    *UnitCell  //nil for non-periodic systems
	Time    float64    //in ps, only meaningful if HasTime
	HasTime bool
}

// NewFrame returns a Frame with an allocated Nx3 coordinate matrix, and,
// if vel is true, an allocated velocity matrix of the same shape.
func NewFrame(natoms int, vel bool) *Frame {
	F := new(Frame)
	F.Coords = mat.NewDense(natoms, 3, nil)
	if vel {
		F.Vel = mat.NewDense(natoms, 3, nil)
	}
	return F
}

// Len returns the number of atoms in the frame, 0 for a Frame with no
// coordinates allocated.
func (F *Frame) Len() int {
	if F == nil || F.Coords == nil {
		return 0
	}
	r, _ := F.Coords.Dims()
	return r
}
