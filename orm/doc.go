/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
Each bucket contains only one type of object, called a Model. Every
model is stored using its protobuf representation under the
<bucket name>:<key> database key.

Sequence maintains a monotonically increasing counter that can be used to
generate model keys.
*/
package orm
