// Package assets publishes the shared test script to object storage.
//
// Every node downloads the script from the bucket during bootstrap, so the
// publisher runs before any server is created. The bucket is created when it
// does not exist yet.
package assets
