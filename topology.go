/*
 * topology.go, part of mdanalysis
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

import "fmt"

// Atom is a per-atom view assembled from the Topology arrays. Zero
// values mark attributes the topology file did not carry.
type Atom struct {
	Name      string
	Id        int //1-based, as in the file
	Molname   string
	Molid     int
	Mass      float64
	Charge    float64 //in elementary charge units
	Symbol    string
	Type      string
	TypeIndex int
}

// Residue is a contiguous, half-open range of atom indices [First, Last)
// with a label and a 1-based numeric id.
type Residue struct {
	Name  string
	Id    int
	First int
	Last  int
}

// Topology is the static description of a molecular system, built once
// from a topology file and immutable afterwards from this library's
// perspective. Every per-atom slice is either nil (the section was
// absent from the file) or has exactly Len() entries. Residues, when
// present, partition [0, Len()) into consecutive segments.
type Topology struct {
	Title       string
	Names       []string
	Charges     []float64 //in elementary charge units
	Elements    []string
	Masses      []float64
	TypeIndices []int //raw ATOM_TYPE_INDEX integers, not resolved
	Types       []string
	Residues    []Residue
	Bonds       [][2]int //pairs of 0-based atom indices
	natoms      int
}

// NewTopology returns an empty topology for natoms atoms. Attribute
// slices start nil and are filled by the topology builder.
func NewTopology(natoms int) *Topology {
	return &Topology{natoms: natoms}
}

// Len returns the number of atoms in the system.
func (T *Topology) Len() int {
	return T.natoms
}

// Atom returns a view of the i-th (0-based) atom, assembled from
// whichever per-atom arrays are populated. Panics if out of range.
func (T *Topology) Atom(i int) *Atom {
	if i < 0 || i >= T.natoms {
		panic(fmt.Sprintf("mdanalysis: Topology: requested atom %d out of bounds (%d atoms)", i, T.natoms))
	}
	at := &Atom{Id: i + 1}
	if T.Names != nil {
		at.Name = T.Names[i]
	}
	if T.Charges != nil {
		at.Charge = T.Charges[i]
	}
	if T.Elements != nil {
		at.Symbol = T.Elements[i]
	}
	if T.Masses != nil {
		at.Mass = T.Masses[i]
	}
	if T.TypeIndices != nil {
		at.TypeIndex = T.TypeIndices[i]
	}
	if T.Types != nil {
		at.Type = T.Types[i]
	}
	if r := T.ResidueOf(i); r != nil {
		at.Molname = r.Name
		at.Molid = r.Id
	}
	return at
}

// ResidueOf returns the residue containing the 0-based atom index i, or
// nil if residues are not populated or i falls outside every range.
func (T *Topology) ResidueOf(i int) *Residue {
	//Residue ranges are sorted and contiguous, but a linear scan is fine
	//here: this is a convenience accessor, not the hot path.
	for k := range T.Residues {
		if i >= T.Residues[k].First && i < T.Residues[k].Last {
			return &T.Residues[k]
		}
	}
	return nil
}
