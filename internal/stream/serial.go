package stream

import "io"

// openSerialFn is swapped in tests to run the device path against fake
// transports.
var openSerialFn func(path string) (io.ReadCloser, error) = openSerial
