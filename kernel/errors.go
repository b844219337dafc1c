// Copyright (C) 2024 VectorQL, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package kernel

import "errors"

// ErrDivByZero is returned by integer division/modulo kernels when
// the right-hand operand is zero. It aborts the current evaluation;
// the owning pipeline remains callable but drained, per the
// propagation policy.
var ErrDivByZero = errors.New("kernel: integer division or modulo by zero")
