// Package s3 provides a client for S3-compatible object storage.
//
// It stores the shared load-test script that every node downloads during
// bootstrap. Any S3-compatible endpoint works; with no endpoint the AWS
// default resolver is used.
package s3
