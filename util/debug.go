// Copyright 2024 Real-Time Innovations, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"fmt"

	"github.com/kr/pretty"
)

// maxValueStrLen is the maximum number of characters output from ValueStr.
var maxValueStrLen = 150

// ValueStr returns a string representation of value which may be a value,
// pointer, or struct type. Output is truncated to maxValueStrLen; used for
// log and test-failure messages only.
func ValueStr(value interface{}) string {
	out := pretty.Sprint(value)
	if len(out) > maxValueStrLen {
		out = out[:maxValueStrLen] + "..."
	}
	return out
}

// Stringify renders value with fmt.Sprintf("%v") but prints nil
// interfaces as "<nil>" so log lines stay greppable.
func Stringify(value interface{}) string {
	if value == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%v", value)
}
