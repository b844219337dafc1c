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

package page

// Date is the number of days since the Unix epoch.
type Date int64

// Time is a time-of-day expressed in nanoseconds since midnight.
type Time int64

// Timestamp is a Unix timestamp expressed in nanoseconds.
type Timestamp int64
