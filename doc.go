/*
 * doc.go, part of mdanalysis
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

//Package mdanalysis provides the shared data model for reading Amber
//molecular topologies and trajectories: the Topology built from a prmtop
//file, the Frame produced by the trajectory readers, and the interfaces
//that all readers implement.
//
//The format parsers live in subpackages: prmtop for the topology file,
//fortran for the fixed-width field decoder, and traj/crd, traj/inpcrd and
//traj/ncdf for the three coordinate formats. Each reader owns its file
//handle exclusively and produces frames lazily, in on-disk order, until
//it returns a LastFrameError.
package mdanalysis
