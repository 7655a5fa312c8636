// Package ratestatus tracks which rows of a rate plan CSV have already been applied in the extranet.
//
// The file has a header with the columns "Room ID", "Date Range", "Price" and an optional "Status".
// A row with an empty status is pending. Every change is written back to the file.
package ratestatus
