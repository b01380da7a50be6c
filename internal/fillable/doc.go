// Package fillable encodes scanned config objects into editable YAML
// descriptors and keeps them in a per-package store on disk.
package fillable
