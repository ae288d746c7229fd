package fetch

var HTTPURL = httpURL
var SplitS3 = splitS3
