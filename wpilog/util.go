package wpilog

import "fmt"

func anyToString(v interface{}) string {
	return fmt.Sprint(v)
}
