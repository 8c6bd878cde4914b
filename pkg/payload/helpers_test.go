// SPDX-License-Identifier: MPL-2.0

package payload

import "reflect"

func reflectElem(v any) reflect.Type {
	return reflect.TypeOf(v).Elem()
}
