// internal/app/system/csvutil/limits.go
package csvutil

// MaxRows caps how many records one export will write.
const MaxRows = 20000
